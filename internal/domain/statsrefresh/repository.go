package statsrefresh

import "context"

type Repository interface {
	Insert(ctx context.Context, run Run) error
	LastSuccessful(ctx context.Context, contestID string) (Run, bool, error)
	ListRecent(ctx context.Context, contestID string, limit int) ([]Run, error)
}
