package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

// ListByPeriod returns stored lines for the period. An empty playerIDs lists
// every player.
func (r *PlayerStatsRepository) ListByPeriod(ctx context.Context, season string, periodNumber int, playerIDs []string) ([]playerstats.PeriodStat, error) {
	conditions := []qb.Condition{
		qb.Eq("season", season),
		qb.Eq("period_number", periodNumber),
		qb.IsNull("deleted_at"),
	}
	if len(playerIDs) > 0 {
		conditions = append(conditions, qb.In("player_public_id", playerIDs))
	}

	query, args, err := playerStatBaseSelectBuilder().
		Where(conditions...).
		OrderBy("player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player period stats query: %w", err)
	}

	var rows []playerPeriodStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player period stats: %w", err)
	}

	out := make([]playerstats.PeriodStat, 0, len(rows))
	for _, row := range rows {
		item, err := periodStatFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PlayerStatsRepository) Get(ctx context.Context, season string, periodNumber int, playerID string) (playerstats.PeriodStat, bool, error) {
	query, args, err := playerStatBaseSelectBuilder().
		Where(
			qb.Eq("season", season),
			qb.Eq("period_number", periodNumber),
			qb.Eq("player_public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return playerstats.PeriodStat{}, false, fmt.Errorf("build get player period stat query: %w", err)
	}

	var row playerPeriodStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstats.PeriodStat{}, false, nil
		}
		return playerstats.PeriodStat{}, false, fmt.Errorf("get player period stat: %w", err)
	}

	item, err := periodStatFromRow(row)
	if err != nil {
		return playerstats.PeriodStat{}, false, err
	}
	return item, true, nil
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, item playerstats.PeriodStat) error {
	raw, err := jsonColumn(categoriesColumn(item.Categories))
	if err != nil {
		return fmt.Errorf("encode stat categories for %s: %w", item.PlayerID, err)
	}
	statAt := item.UpdatedAt.UTC()
	if statAt.IsZero() {
		statAt = time.Now().UTC()
	}

	insertModel := playerPeriodStatInsertModel{
		Season:     item.Season,
		Period:     item.Period,
		PlayerID:   item.PlayerID,
		Categories: raw,
		StatAt:     statAt,
	}
	query, args, err := qb.InsertModel("player_period_stats", insertModel, `ON CONFLICT (season, period_number, player_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    categories = EXCLUDED.categories,
    stat_updated_at = EXCLUDED.stat_updated_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert player period stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player period stat: %w", err)
	}
	return nil
}

func categoriesColumn(in map[scoring.Category]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for category, value := range in {
		out[string(category)] = value
	}
	return out
}

func periodStatFromRow(row playerPeriodStatTableModel) (playerstats.PeriodStat, error) {
	var raw map[string]float64
	if err := decodeJSONColumn(row.Categories, &raw); err != nil {
		return playerstats.PeriodStat{}, fmt.Errorf("decode stat categories for %s: %w", row.PlayerID, err)
	}
	categories := make(map[scoring.Category]float64, len(raw))
	for key, value := range raw {
		categories[scoring.Category(key)] = value
	}
	return playerstats.PeriodStat{
		Season:     row.Season,
		Period:     row.Period,
		PlayerID:   row.PlayerID,
		Categories: categories,
		UpdatedAt:  row.StatAt.UTC(),
	}, nil
}

func playerStatBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("player_period_stats")
}
