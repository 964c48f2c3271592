package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) ListByContest(ctx context.Context, contestID string) ([]participant.Participant, error) {
	query, args, err := participantBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants by contest: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, contestID, participantID string) (participant.Participant, bool, error) {
	query, args, err := participantBaseSelectBuilder().
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.Eq("participant_id", participantID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}
	return participantFromRow(row), true, nil
}

// Upsert keeps the original joined_at when the participant already exists.
func (r *ParticipantRepository) Upsert(ctx context.Context, item participant.Participant) error {
	joinedAt := item.JoinedAt.UTC()
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}
	insertModel := participantInsertModel{
		ContestID:     item.ContestID,
		ParticipantID: item.ID,
		Label:         item.Label,
		JoinedAt:      joinedAt,
	}

	query, args, err := qb.InsertModel("contest_participants", insertModel, `ON CONFLICT (contest_public_id, participant_id) WHERE deleted_at IS NULL
DO UPDATE SET
    label = EXCLUDED.label,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		ContestID: row.ContestID,
		ID:        row.ParticipantID,
		Label:     row.Label,
		JoinedAt:  row.JoinedAt.UTC(),
	}
}

func participantBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("contest_participants")
}
