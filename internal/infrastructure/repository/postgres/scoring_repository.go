package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) GetActive(ctx context.Context, contestID string) (scoring.Coefficients, bool, error) {
	query, args, err := qb.Select("*").From("scoring_coefficients").
		Where(
			qb.Eq("contest_public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return scoring.Coefficients{}, false, fmt.Errorf("build get active coefficients query: %w", err)
	}

	var row scoringCoefficientsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.Coefficients{}, false, nil
		}
		return scoring.Coefficients{}, false, fmt.Errorf("get active coefficients: %w", err)
	}

	var out scoring.Coefficients
	if err := decodeJSONColumn(row.Coefficients, &out); err != nil {
		return scoring.Coefficients{}, false, fmt.Errorf("decode coefficients for contest %s: %w", contestID, err)
	}
	return out, true, nil
}

func (r *ScoringRepository) UpsertActive(ctx context.Context, contestID string, coefficients scoring.Coefficients) error {
	raw, err := jsonColumn(coefficients)
	if err != nil {
		return fmt.Errorf("encode coefficients: %w", err)
	}

	insertModel := scoringCoefficientsInsertModel{
		ContestID:    contestID,
		Coefficients: raw,
	}
	query, args, err := qb.InsertModel("scoring_coefficients", insertModel, `ON CONFLICT (contest_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    coefficients = EXCLUDED.coefficients,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert coefficients query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert coefficients: %w", err)
	}
	return nil
}
