package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/player"
	qb "github.com/riskibarqy/weekly-picks/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByIDs returns players in request order; unknown ids are skipped.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.In("public_id", playerIDs),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	byID := make(map[string]player.Player, len(rows))
	for _, row := range rows {
		byID[row.PublicID] = playerFromRow(row)
	}
	out := make([]player.Player, 0, len(rows))
	for _, id := range playerIDs {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]any, 0, len(items))
	for _, item := range items {
		var teamCode *string
		if code := strings.TrimSpace(item.TeamCode); code != "" {
			teamCode = &code
		}
		models = append(models, playerInsertModel{
			PublicID: item.ID,
			Name:     item.Name,
			Position: strings.ToUpper(item.Position),
			TeamCode: teamCode,
		})
	}

	query, args, err := qb.InsertModels("players", models, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    team_code = EXCLUDED.team_code,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.PublicID,
		Name:     row.Name,
		Position: row.Position,
		TeamCode: row.TeamCode.String,
	}
}
