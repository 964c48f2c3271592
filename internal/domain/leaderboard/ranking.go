package leaderboard

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Entry struct {
	ParticipantID      string
	Label              string
	TotalPoints        float64
	Rank               int
	PointsBehindLeader *float64
}

// Rank orders participants by total points and assigns shared competition
// ranks (1, 2, 2, 4). Ties are ordered by participant id. The first entry
// carries no PointsBehindLeader; anyone tied with it is 0 behind.
func Rank(totals map[string]decimal.Decimal, labels map[string]string) []Entry {
	type row struct {
		id    string
		total decimal.Decimal
	}
	rows := make([]row, 0, len(totals))
	for id, total := range totals {
		rows = append(rows, row{id: id, total: total})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if cmp := rows[i].total.Cmp(rows[j].total); cmp != 0 {
			return cmp > 0
		}
		return rows[i].id < rows[j].id
	})

	out := make([]Entry, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	leader := rows[0].total
	rank := 0
	for i, r := range rows {
		if i == 0 || !r.total.Equal(rows[i-1].total) {
			rank = i + 1
		}
		label := labels[r.id]
		if label == "" {
			label = r.id
		}
		entry := Entry{
			ParticipantID: r.id,
			Label:         label,
			TotalPoints:   r.total.InexactFloat64(),
			Rank:          rank,
		}
		if i > 0 {
			behind := decimal.Max(leader.Sub(r.total), decimal.Zero).InexactFloat64()
			entry.PointsBehindLeader = &behind
		}
		out = append(out, entry)
	}
	return out
}
