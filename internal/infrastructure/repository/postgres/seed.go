package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo contest, players and windows into an empty
// database with the given use-once policy. It is a no-op once any contest
// exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, policy contest.UseOncePolicy) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM contests WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count contests for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	return withTx(ctx, db, "seed", func(tx *sqlx.Tx) error {
		for _, c := range memory.SeedContestsWithPolicy(policy) {
			slots := make([]slotColumn, 0, len(c.Slots))
			for _, slot := range c.Slots {
				slots = append(slots, slotColumn{Name: slot.Name, EligiblePositions: slot.EligiblePositions})
			}
			rawSlots, err := jsonColumn(slots)
			if err != nil {
				return fmt.Errorf("encode seed contest %s slots: %w", c.ID, err)
			}
			if err := execNamed(ctx, tx, `
INSERT INTO contests (public_id, name, season, slots, use_once_policy)
VALUES (:public_id, :name, :season, CAST(:slots AS JSONB), :use_once_policy)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
				"public_id":       c.ID,
				"name":            c.Name,
				"season":          c.Season,
				"slots":           rawSlots,
				"use_once_policy": string(c.UseOncePolicy),
			}); err != nil {
				return fmt.Errorf("seed contest %s: %w", c.ID, err)
			}
		}

		for _, p := range memory.SeedPlayers() {
			if err := execNamed(ctx, tx, `
INSERT INTO players (public_id, name, position, team_code)
VALUES (:public_id, :name, :position, :team_code)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
				"public_id": p.ID,
				"name":      p.Name,
				"position":  p.Position,
				"team_code": p.TeamCode,
			}); err != nil {
				return fmt.Errorf("seed player %s: %w", p.ID, err)
			}
		}

		for _, w := range memory.SeedWindows() {
			if err := execNamed(ctx, tx, `
INSERT INTO period_windows (contest_public_id, period_number, opens_at, deadline_at)
VALUES (:contest_public_id, :period_number, :opens_at, :deadline_at)
ON CONFLICT (contest_public_id, period_number) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
				"contest_public_id": w.ContestID,
				"period_number":     w.Number,
				"opens_at":          w.OpensAt.UTC(),
				"deadline_at":       w.DeadlineAt,
			}); err != nil {
				return fmt.Errorf("seed window %s/%d: %w", w.ContestID, w.Number, err)
			}
		}
		return nil
	})
}

func execNamed(ctx context.Context, tx *sqlx.Tx, query string, arg map[string]any) error {
	sqlQuery, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return err
	}
	return nil
}
