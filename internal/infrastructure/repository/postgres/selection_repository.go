package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type SelectionRepository struct {
	db *sqlx.DB
}

func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

func (r *SelectionRepository) ListByContestPeriod(ctx context.Context, contestID string, periodNumber int) ([]selection.Selection, error) {
	query, args, err := selectionBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("period_number", periodNumber),
			qb.IsNull("deleted_at"),
		).
		OrderBy("participant_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list selections by period query: %w", err)
	}
	return r.list(ctx, "list selections by period", query, args)
}

func (r *SelectionRepository) ListByContestParticipant(ctx context.Context, contestID, participantID string) ([]selection.Selection, error) {
	query, args, err := selectionBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("participant_id", participantID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("period_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list selections by participant query: %w", err)
	}
	return r.list(ctx, "list selections by participant", query, args)
}

// CommitPeriod replaces the participant's active rows for the period in one
// transaction, so readers never observe a partial set. A transaction-scoped
// advisory lock per contest and participant serializes concurrent commits
// before the guard reads the history.
func (r *SelectionRepository) CommitPeriod(ctx context.Context, contestID, participantID string, periodNumber int, items []selection.Selection, guard selection.CommitGuard) error {
	return withTx(ctx, r.db, "commit selections", func(tx *sqlx.Tx) error {
		if guard != nil {
			if _, err := tx.ExecContext(ctx, lockParticipantSQL, contestID+":"+participantID); err != nil {
				return fmt.Errorf("lock participant selections: %w", err)
			}
			history, err := r.listTx(ctx, tx, contestID, participantID)
			if err != nil {
				return err
			}
			if err := guard(history); err != nil {
				return err
			}
		}
		if _, err := softDeleteSelections(ctx, tx, contestID, participantID, periodNumber); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		models := make([]any, 0, len(items))
		for _, item := range items {
			committedAt := item.CommittedAt.UTC()
			if committedAt.IsZero() {
				committedAt = time.Now().UTC()
			}
			models = append(models, selectionInsertModel{
				ContestID:     contestID,
				ParticipantID: participantID,
				Period:        periodNumber,
				Slot:          item.Slot,
				PlayerID:      item.PlayerID,
				CommittedAt:   committedAt,
			})
		}

		query, args, err := qb.InsertModels("selections", models, `ON CONFLICT (contest_public_id, participant_id, period_number, slot) WHERE deleted_at IS NULL
DO UPDATE SET
    player_public_id = EXCLUDED.player_public_id,
    committed_at = EXCLUDED.committed_at,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build insert selections query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert selections: %w", err)
		}
		return nil
	})
}

func (r *SelectionRepository) DeletePeriod(ctx context.Context, contestID, participantID string, periodNumber int) (int, error) {
	var removed int
	err := withTx(ctx, r.db, "delete selections", func(tx *sqlx.Tx) error {
		n, err := softDeleteSelections(ctx, tx, contestID, participantID, periodNumber)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

const lockParticipantSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

func (r *SelectionRepository) listTx(ctx context.Context, tx *sqlx.Tx, contestID, participantID string) ([]selection.Selection, error) {
	query, args, err := selectionBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("participant_id", participantID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("period_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list selections by participant query: %w", err)
	}
	var rows []selectionTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list selections by participant: %w", err)
	}
	return toSelections(rows), nil
}

func (r *SelectionRepository) list(ctx context.Context, op, query string, args []any) ([]selection.Selection, error) {
	var rows []selectionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toSelections(rows), nil
}

func toSelections(rows []selectionTableModel) []selection.Selection {
	out := make([]selection.Selection, 0, len(rows))
	for _, row := range rows {
		out = append(out, selection.Selection{
			ContestID:     row.ContestID,
			ParticipantID: row.ParticipantID,
			Period:        row.Period,
			Slot:          row.Slot,
			PlayerID:      row.PlayerID,
			CommittedAt:   row.CommittedAt.UTC(),
		})
	}
	return out
}

func softDeleteSelections(ctx context.Context, tx *sqlx.Tx, contestID, participantID string, periodNumber int) (int, error) {
	query, args, err := qb.Update("selections").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("participant_id", participantID),
			qb.Eq("period_number", periodNumber),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build clear selections query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear selections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear selections rows affected: %w", err)
	}
	return int(n), nil
}

func selectionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("selections")
}
