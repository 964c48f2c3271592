package period

import (
	"fmt"
	"strings"
	"time"
)

type State string

const (
	StateFutureLocked     State = "FUTURE_LOCKED"
	StateOpenNotSubmitted State = "OPEN_NOT_SUBMITTED"
	StateSubmitted        State = "SUBMITTED"
	StatePastNoPicks      State = "PAST_NO_PICKS"
)

// Window is the submission window of one period of a contest. DeadlineAt is
// nil until the schedule knows the first kickoff.
type Window struct {
	ContestID  string
	Number     int
	OpensAt    time.Time
	DeadlineAt *time.Time
}

func (w Window) Validate() error {
	if strings.TrimSpace(w.ContestID) == "" {
		return fmt.Errorf("window contest id is required")
	}
	if w.Number <= 0 {
		return fmt.Errorf("window number must be greater than zero")
	}
	if w.OpensAt.IsZero() {
		return fmt.Errorf("window %d opens_at is required", w.Number)
	}
	if w.DeadlineAt != nil && w.DeadlineAt.Before(w.OpensAt) {
		return fmt.Errorf("window %d deadline is before opens_at", w.Number)
	}
	return nil
}

// PastDeadline is true once now reaches the deadline. A missing deadline is
// never past.
func PastDeadline(deadline *time.Time, now time.Time) bool {
	if deadline == nil || deadline.IsZero() {
		return false
	}
	return !now.Before(*deadline)
}

// Resolve maps a window to the lifecycle state seen by one participant.
func Resolve(w Window, now time.Time, complete bool) State {
	if now.Before(w.OpensAt) {
		return StateFutureLocked
	}
	if complete {
		return StateSubmitted
	}
	if PastDeadline(w.DeadlineAt, now) {
		return StatePastNoPicks
	}
	return StateOpenNotSubmitted
}

// AcceptsSubmissions reports whether picks may still be committed.
func AcceptsSubmissions(w Window, now time.Time) bool {
	return !now.Before(w.OpensAt) && !PastDeadline(w.DeadlineAt, now)
}

// DeadlineFromKickoffs returns the earliest kickoff, or nil when none is known.
func DeadlineFromKickoffs(kickoffs []time.Time) *time.Time {
	var out *time.Time
	for _, kickoff := range kickoffs {
		if kickoff.IsZero() {
			continue
		}
		if out == nil || kickoff.Before(*out) {
			k := kickoff
			out = &k
		}
	}
	return out
}

// Current picks the latest window that has opened, falling back to the first.
func Current(windows []Window, now time.Time) (Window, bool) {
	var (
		out   Window
		found bool
	)
	for _, w := range windows {
		if now.Before(w.OpensAt) {
			continue
		}
		if !found || w.Number > out.Number {
			out = w
			found = true
		}
	}
	if found {
		return out, true
	}
	for _, w := range windows {
		if !found || w.Number < out.Number {
			out = w
			found = true
		}
	}
	return out, found
}
