package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
)

type PlayerStatsRepository struct {
	mu    sync.RWMutex
	items map[string]playerstats.PeriodStat
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{items: make(map[string]playerstats.PeriodStat)}
}

func (r *PlayerStatsRepository) ListByPeriod(_ context.Context, season string, period int, playerIDs []string) ([]playerstats.PeriodStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.PeriodStat, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.items[playerStatKey(season, period, id)]; ok {
			out = append(out, clonePeriodStat(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *PlayerStatsRepository) Get(_ context.Context, season string, period int, playerID string) (playerstats.PeriodStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[playerStatKey(season, period, playerID)]
	if !ok {
		return playerstats.PeriodStat{}, false, nil
	}
	return clonePeriodStat(item), true, nil
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, item playerstats.PeriodStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[playerStatKey(item.Season, item.Period, item.PlayerID)] = clonePeriodStat(item)
	return nil
}

func playerStatKey(season string, period int, playerID string) string {
	return season + "::" + strconv.Itoa(period) + "::" + playerID
}

func clonePeriodStat(item playerstats.PeriodStat) playerstats.PeriodStat {
	copied := item
	copied.Categories = make(map[scoring.Category]float64, len(item.Categories))
	for k, v := range item.Categories {
		copied.Categories[k] = v
	}
	return copied
}
