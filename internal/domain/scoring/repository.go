package scoring

import "context"

// Repository stores the single active coefficient row per contest.
type Repository interface {
	GetActive(ctx context.Context, contestID string) (Coefficients, bool, error)
	UpsertActive(ctx context.Context, contestID string, coefficients Coefficients) error
}
