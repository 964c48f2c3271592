package playerstats

import (
	"testing"

	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	existing := PeriodStat{
		Season:   "2025",
		Period:   4,
		PlayerID: "p1",
		Categories: map[scoring.Category]float64{
			scoring.PassTouchdowns: 2,
			scoring.PassYards:      250,
			scoring.Interceptions:  1,
		},
	}
	incoming := PeriodStat{
		Season:   "2025",
		Period:   4,
		PlayerID: "p1",
		Categories: map[scoring.Category]float64{
			scoring.PassTouchdowns: 0,
			scoring.PassYards:      275,
			scoring.RushYards:      12,
		},
	}

	merged := Merge(existing, incoming)

	want := map[scoring.Category]float64{
		scoring.PassTouchdowns: 2,
		scoring.PassYards:      275,
		scoring.Interceptions:  1,
		scoring.RushYards:      12,
	}
	for category, value := range want {
		if got := merged.Categories[category]; got != value {
			t.Fatalf("unexpected %s: got=%v want=%v", category, got, value)
		}
	}
	if !Changed(existing, merged) {
		t.Fatalf("expected merge to report a change")
	}
}

// A zero in an update never overwrites a stored nonzero value.
func TestMerge_ZeroCannotCorrectDown(t *testing.T) {
	t.Parallel()

	existing := PeriodStat{PlayerID: "p1", Categories: map[scoring.Category]float64{scoring.FumblesLost: 1}}
	incoming := PeriodStat{PlayerID: "p1", Categories: map[scoring.Category]float64{scoring.FumblesLost: 0}}

	merged := Merge(existing, incoming)
	if merged.Categories[scoring.FumblesLost] != 1 {
		t.Fatalf("expected stored fumble to survive, got %v", merged.Categories[scoring.FumblesLost])
	}
	if Changed(existing, merged) {
		t.Fatalf("no-op merge must not report a change")
	}
}
