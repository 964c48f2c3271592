package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIncompleteSubmission = errors.New("incomplete submission")
	ErrDuplicateSelection   = errors.New("duplicate selection")
	ErrPeriodNotOpen        = errors.New("period is not open for submissions")
	ErrPeriodClosed         = errors.New("period deadline has passed")
	ErrSelectionLocked      = errors.New("selections already committed for period")
	ErrIneligiblePlayer     = errors.New("player is not eligible for slot")
)

// IncompleteSubmissionError lists the slots that prevent a commit.
type IncompleteSubmissionError struct {
	MissingSlots []string
	UnknownSlots []string
}

func (e *IncompleteSubmissionError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.MissingSlots) > 0 {
		parts = append(parts, "missing slots: "+strings.Join(e.MissingSlots, ", "))
	}
	if len(e.UnknownSlots) > 0 {
		parts = append(parts, "unknown slots: "+strings.Join(e.UnknownSlots, ", "))
	}
	if len(parts) == 0 {
		return ErrIncompleteSubmission.Error()
	}
	return ErrIncompleteSubmission.Error() + ": " + strings.Join(parts, "; ")
}

func (e *IncompleteSubmissionError) Is(target error) bool {
	return target == ErrIncompleteSubmission
}

// Conflict names a pick that reuses a player. UsedInPeriod equals the target
// period when the same player appears twice in one commit.
type Conflict struct {
	Slot         string
	PlayerID     string
	UsedInPeriod int
}

type DuplicateSelectionError struct {
	Period    int
	Conflicts []Conflict
}

func (e *DuplicateSelectionError) Error() string {
	items := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		if c.UsedInPeriod == e.Period {
			items = append(items, fmt.Sprintf("%s=%s picked twice", c.Slot, c.PlayerID))
			continue
		}
		items = append(items, fmt.Sprintf("%s=%s already used in period %d", c.Slot, c.PlayerID, c.UsedInPeriod))
	}
	return fmt.Sprintf("%s for period %d: %s", ErrDuplicateSelection.Error(), e.Period, strings.Join(items, ", "))
}

func (e *DuplicateSelectionError) Is(target error) bool {
	return target == ErrDuplicateSelection
}
