package period

import "context"

type Repository interface {
	ListByContest(ctx context.Context, contestID string) ([]Window, error)
	Get(ctx context.Context, contestID string, number int) (Window, bool, error)
	UpsertWindows(ctx context.Context, contestID string, windows []Window) error
}
