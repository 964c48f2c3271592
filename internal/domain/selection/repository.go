package selection

import "context"

// CommitGuard inspects the participant's stored selections for the contest
// while the commit holds the participant's write lock. A non-nil error aborts
// the write and is returned unchanged.
type CommitGuard func(history []Selection) error

type Repository interface {
	ListByContestPeriod(ctx context.Context, contestID string, period int) ([]Selection, error)
	ListByContestParticipant(ctx context.Context, contestID, participantID string) ([]Selection, error)
	// CommitPeriod writes every item for the participant and period atomically.
	// A nil guard replaces whatever is stored.
	CommitPeriod(ctx context.Context, contestID, participantID string, period int, items []Selection, guard CommitGuard) error
	DeletePeriod(ctx context.Context, contestID, participantID string, period int) (int, error)
}
