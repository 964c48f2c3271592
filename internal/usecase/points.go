package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/shopspring/decimal"
)

// pointsBook turns stored stat lines into player points for a contest.
type pointsBook struct {
	scoringRepo scoring.Repository
	statsRepo   playerstats.Repository
}

func (b pointsBook) coefficients(ctx context.Context, contestID string) (scoring.Coefficients, error) {
	coefficients, exists, err := b.scoringRepo.GetActive(ctx, contestID)
	if err != nil {
		return scoring.Coefficients{}, fmt.Errorf("get active coefficients: %w", err)
	}
	if !exists {
		return scoring.DefaultCoefficients(), nil
	}
	return coefficients, nil
}

// periodPoints scores every player referenced by items. Players without a
// stat line score zero and are absent from reported.
func (b pointsBook) periodPoints(
	ctx context.Context,
	season string,
	periodNumber int,
	items []selection.Selection,
	coefficients scoring.Coefficients,
) (map[string]decimal.Decimal, map[string]bool, error) {
	playerIDs := uniquePlayerIDs(items)
	points := make(map[string]decimal.Decimal, len(playerIDs))
	reported := make(map[string]bool, len(playerIDs))
	if len(playerIDs) == 0 {
		return points, reported, nil
	}

	stats, err := b.statsRepo.ListByPeriod(ctx, season, periodNumber, playerIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("list player stats for period %d: %w", periodNumber, err)
	}
	for _, stat := range stats {
		points[stat.PlayerID] = scoring.Calculate(stat.Categories, coefficients)
		reported[stat.PlayerID] = true
	}
	return points, reported, nil
}

func uniquePlayerIDs(items []selection.Selection) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.PlayerID == "" {
			continue
		}
		if _, ok := seen[item.PlayerID]; ok {
			continue
		}
		seen[item.PlayerID] = struct{}{}
		out = append(out, item.PlayerID)
	}
	sort.Strings(out)
	return out
}
