package leaderboard

import (
	"sort"

	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/shopspring/decimal"
)

// PlayerAggregate summarises one player in one slot. Period is zero for the
// contest-wide roll-up produced by Combine.
type PlayerAggregate struct {
	Period           int
	PlayerID         string
	Slot             string
	SelectorIDs      []string
	Points           float64
	HasReportedStats bool

	points decimal.Decimal
}

// ParticipantTotals sums player points per participant identity.
func ParticipantTotals(items []selection.Selection, points map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, item := range items {
		if item.ParticipantID == "" {
			continue
		}
		out[item.ParticipantID] = out[item.ParticipantID].Add(points[item.PlayerID])
	}
	return out
}

// BuildPlayerAggregates groups visible selections by player and slot.
func BuildPlayerAggregates(periodNumber int, visible []selection.Selection, points map[string]decimal.Decimal, reported map[string]bool) []PlayerAggregate {
	type key struct{ player, slot string }
	index := make(map[key]*PlayerAggregate)
	order := make([]key, 0)

	for _, item := range visible {
		if item.ParticipantID == "" || item.PlayerID == "" {
			continue
		}
		k := key{player: item.PlayerID, slot: item.Slot}
		agg, ok := index[k]
		if !ok {
			p := points[item.PlayerID]
			agg = &PlayerAggregate{
				Period:           periodNumber,
				PlayerID:         item.PlayerID,
				Slot:             item.Slot,
				Points:           p.InexactFloat64(),
				HasReportedStats: reported[item.PlayerID],
				points:           p,
			}
			index[k] = agg
			order = append(order, k)
		}
		agg.SelectorIDs = appendUnique(agg.SelectorIDs, item.ParticipantID)
	}

	out := make([]PlayerAggregate, 0, len(order))
	for _, k := range order {
		agg := index[k]
		sort.Strings(agg.SelectorIDs)
		out = append(out, *agg)
	}
	sortAggregates(out)
	return out
}

// Combine rolls per-period aggregates into contest-wide ones keyed by player
// and slot. Points add up and selectors are unioned.
func Combine(periods ...[]PlayerAggregate) []PlayerAggregate {
	type key struct{ player, slot string }
	index := make(map[key]*PlayerAggregate)
	order := make([]key, 0)

	for _, aggs := range periods {
		for _, agg := range aggs {
			k := key{player: agg.PlayerID, slot: agg.Slot}
			combined, ok := index[k]
			if !ok {
				combined = &PlayerAggregate{PlayerID: agg.PlayerID, Slot: agg.Slot}
				index[k] = combined
				order = append(order, k)
			}
			combined.points = combined.points.Add(agg.points)
			combined.HasReportedStats = combined.HasReportedStats || agg.HasReportedStats
			for _, id := range agg.SelectorIDs {
				combined.SelectorIDs = appendUnique(combined.SelectorIDs, id)
			}
		}
	}

	out := make([]PlayerAggregate, 0, len(order))
	for _, k := range order {
		combined := index[k]
		combined.Points = combined.points.InexactFloat64()
		sort.Strings(combined.SelectorIDs)
		out = append(out, *combined)
	}
	sortAggregates(out)
	return out
}

func sortAggregates(items []PlayerAggregate) {
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := items[i].points.Cmp(items[j].points); cmp != 0 {
			return cmp > 0
		}
		if items[i].Slot != items[j].Slot {
			return items[i].Slot < items[j].Slot
		}
		return items[i].PlayerID < items[j].PlayerID
	})
}

func appendUnique(items []string, value string) []string {
	for _, item := range items {
		if item == value {
			return items
		}
	}
	return append(items, value)
}
