package statsrefresh

import "time"

type Status string

const (
	StatusCompleted     Status = "completed"
	StatusPartial       Status = "partial"
	StatusFailed        Status = "failed"
	StatusNothingToSync Status = "nothing_to_sync"
)

// Run is one durable entry of the stats refresh log. The log gates how often
// the upstream provider may be polled.
type Run struct {
	ID           string
	ContestID    string
	Period       int
	Status       Status
	Succeeded    int
	Skipped      int
	Failed       int
	StartedAt    time.Time
	FinishedAt   time.Time
	DurationMs   int64
	ErrorMessage string
	TraceID      string
}

// Successful reports whether the run counts toward the minimum interval.
func (r Run) Successful() bool {
	return r.Status == StatusCompleted || r.Status == StatusPartial || r.Status == StatusNothingToSync
}

// StatusFor derives the run status from the batch counts.
func StatusFor(succeeded, skipped, failed int) Status {
	switch {
	case failed > 0 && succeeded == 0 && skipped == 0:
		return StatusFailed
	case failed > 0:
		return StatusPartial
	case succeeded == 0 && skipped == 0:
		return StatusNothingToSync
	default:
		return StatusCompleted
	}
}
