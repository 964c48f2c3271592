package player

import "context"

type Repository interface {
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	Upsert(ctx context.Context, items []Player) error
}
