package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/statsrefresh"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type RefreshRunRepository struct {
	db *sqlx.DB
}

func NewRefreshRunRepository(db *sqlx.DB) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

func (r *RefreshRunRepository) Insert(ctx context.Context, run statsrefresh.Run) error {
	insertModel := refreshRunInsertModel{
		ID:           run.ID,
		ContestID:    run.ContestID,
		Period:       run.Period,
		Status:       string(run.Status),
		Succeeded:    run.Succeeded,
		Skipped:      run.Skipped,
		Failed:       run.Failed,
		StartedAt:    run.StartedAt.UTC(),
		FinishedAt:   run.FinishedAt.UTC(),
		DurationMs:   run.DurationMs,
		ErrorMessage: run.ErrorMessage,
		TraceID:      run.TraceID,
	}
	query, args, err := qb.InsertModel("stats_refresh_runs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert refresh run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert refresh run %s: duplicate id: %w", run.ID, err)
		}
		return fmt.Errorf("insert refresh run: %w", err)
	}
	return nil
}

// LastSuccessful returns the latest run that counts toward the minimum
// refresh interval.
func (r *RefreshRunRepository) LastSuccessful(ctx context.Context, contestID string) (statsrefresh.Run, bool, error) {
	query, args, err := refreshRunBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.In("status", []string{
				string(statsrefresh.StatusCompleted),
				string(statsrefresh.StatusPartial),
				string(statsrefresh.StatusNothingToSync),
			}),
		).
		OrderBy("started_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return statsrefresh.Run{}, false, fmt.Errorf("build last successful refresh run query: %w", err)
	}

	var row refreshRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return statsrefresh.Run{}, false, nil
		}
		return statsrefresh.Run{}, false, fmt.Errorf("get last successful refresh run: %w", err)
	}
	return refreshRunFromRow(row), true, nil
}

func (r *RefreshRunRepository) ListRecent(ctx context.Context, contestID string, limit int) ([]statsrefresh.Run, error) {
	builder := refreshRunBaseSelectBuilder().
		Where(qb.Eq("contest_public_id", contestID)).
		OrderBy("started_at DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list refresh runs query: %w", err)
	}

	var rows []refreshRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list refresh runs: %w", err)
	}

	out := make([]statsrefresh.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, refreshRunFromRow(row))
	}
	return out, nil
}

func refreshRunFromRow(row refreshRunTableModel) statsrefresh.Run {
	return statsrefresh.Run{
		ID:           row.ID,
		ContestID:    row.ContestID,
		Period:       row.Period,
		Status:       statsrefresh.Status(row.Status),
		Succeeded:    row.Succeeded,
		Skipped:      row.Skipped,
		Failed:       row.Failed,
		StartedAt:    row.StartedAt.UTC(),
		FinishedAt:   row.FinishedAt.UTC(),
		DurationMs:   row.DurationMs,
		ErrorMessage: row.ErrorMessage,
		TraceID:      row.TraceID,
	}
}

func refreshRunBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("stats_refresh_runs")
}
