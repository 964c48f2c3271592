package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type WindowRepository struct {
	db *sqlx.DB
}

func NewWindowRepository(db *sqlx.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

func (r *WindowRepository) ListByContest(ctx context.Context, contestID string) ([]period.Window, error) {
	query, args, err := windowBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("period_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list windows query: %w", err)
	}

	var rows []windowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list windows by contest: %w", err)
	}

	out := make([]period.Window, 0, len(rows))
	for _, row := range rows {
		out = append(out, windowFromRow(row))
	}
	return out, nil
}

func (r *WindowRepository) Get(ctx context.Context, contestID string, number int) (period.Window, bool, error) {
	query, args, err := windowBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("period_number", number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return period.Window{}, false, fmt.Errorf("build get window query: %w", err)
	}

	var row windowTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return period.Window{}, false, nil
		}
		return period.Window{}, false, fmt.Errorf("get window: %w", err)
	}
	return windowFromRow(row), true, nil
}

func (r *WindowRepository) UpsertWindows(ctx context.Context, contestID string, windows []period.Window) error {
	if len(windows) == 0 {
		return nil
	}

	models := make([]any, 0, len(windows))
	for _, w := range windows {
		var deadline *time.Time
		if w.DeadlineAt != nil {
			d := w.DeadlineAt.UTC()
			deadline = &d
		}
		models = append(models, windowInsertModel{
			ContestID:  contestID,
			Number:     w.Number,
			OpensAt:    w.OpensAt.UTC(),
			DeadlineAt: deadline,
		})
	}

	query, args, err := qb.InsertModels("period_windows", models, `ON CONFLICT (contest_public_id, period_number) WHERE deleted_at IS NULL
DO UPDATE SET
    opens_at = EXCLUDED.opens_at,
    deadline_at = EXCLUDED.deadline_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert windows query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert windows: %w", err)
	}
	return nil
}

func windowFromRow(row windowTableModel) period.Window {
	out := period.Window{
		ContestID: row.ContestID,
		Number:    row.Number,
		OpensAt:   row.OpensAt.UTC(),
	}
	if row.DeadlineAt != nil {
		d := row.DeadlineAt.UTC()
		out.DeadlineAt = &d
	}
	return out
}

func windowBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("period_windows")
}
