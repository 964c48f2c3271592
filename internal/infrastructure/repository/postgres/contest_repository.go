package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) List(ctx context.Context) ([]contest.Contest, error) {
	query, args, err := contestBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		item, err := contestFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	query, args, err := contestBaseSelectBuilder().
		Where(
			qb.Eq("public_id", contestID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest by id: %w", err)
	}

	item, err := contestFromRow(row)
	if err != nil {
		return contest.Contest{}, false, err
	}
	return item, true, nil
}

// Upsert is used by the bootstrap seed; contests have no write endpoint.
func (r *ContestRepository) Upsert(ctx context.Context, item contest.Contest) error {
	slots := make([]slotColumn, 0, len(item.Slots))
	for _, slot := range item.Slots {
		slots = append(slots, slotColumn{Name: slot.Name, EligiblePositions: slot.EligiblePositions})
	}
	rawSlots, err := jsonColumn(slots)
	if err != nil {
		return fmt.Errorf("encode contest %s slots: %w", item.ID, err)
	}

	insertModel := contestInsertModel{
		ID:            item.ID,
		Name:          item.Name,
		Season:        item.Season,
		Slots:         rawSlots,
		UseOncePolicy: string(item.UseOncePolicy),
	}
	query, args, err := qb.InsertModel("contests", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    season = EXCLUDED.season,
    slots = EXCLUDED.slots,
    use_once_policy = EXCLUDED.use_once_policy,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert contest %s: %w", item.ID, err)
	}
	return nil
}

func contestFromRow(row contestTableModel) (contest.Contest, error) {
	var slots []slotColumn
	if err := decodeJSONColumn(row.Slots, &slots); err != nil {
		return contest.Contest{}, fmt.Errorf("decode contest %s slots: %w", row.ID, err)
	}
	policy, err := contest.ParseUseOncePolicy(row.UseOncePolicy)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("contest %s: %w", row.ID, err)
	}

	out := contest.Contest{
		ID:            row.ID,
		Name:          row.Name,
		Season:        row.Season,
		Slots:         make([]contest.Slot, 0, len(slots)),
		UseOncePolicy: policy,
	}
	for _, slot := range slots {
		out.Slots = append(out.Slots, contest.Slot{
			Name:              slot.Name,
			EligiblePositions: append([]string(nil), slot.EligiblePositions...),
		})
	}
	return out, nil
}

func contestBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("contests")
}
