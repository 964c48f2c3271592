package playerstats

import "context"

type Repository interface {
	ListByPeriod(ctx context.Context, season string, period int, playerIDs []string) ([]PeriodStat, error)
	Get(ctx context.Context, season string, period int, playerID string) (PeriodStat, bool, error)
	Upsert(ctx context.Context, item PeriodStat) error
}
