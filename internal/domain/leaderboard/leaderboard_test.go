package leaderboard

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/shopspring/decimal"
)

func TestRank_SharedCompetitionRanks(t *testing.T) {
	t.Parallel()

	totals := map[string]decimal.Decimal{
		"a": decimal.NewFromInt(100),
		"b": decimal.NewFromInt(90),
		"c": decimal.NewFromInt(90),
		"d": decimal.NewFromInt(80),
	}
	labels := map[string]string{"a": "Ann", "b": "Ben", "c": "Cat", "d": "Dan"}

	entries := Rank(totals, labels)

	gotRanks := []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank}
	if !reflect.DeepEqual(gotRanks, []int{1, 2, 2, 4}) {
		t.Fatalf("unexpected ranks: %v", gotRanks)
	}
	if entries[0].PointsBehindLeader != nil {
		t.Fatalf("leader must not carry points behind")
	}
	wantBehind := []float64{10, 10, 20}
	for i, want := range wantBehind {
		got := entries[i+1].PointsBehindLeader
		if got == nil || *got != want {
			t.Fatalf("unexpected points behind for %s: got=%v want=%v", entries[i+1].ParticipantID, got, want)
		}
	}
	if entries[1].ParticipantID != "b" || entries[2].ParticipantID != "c" {
		t.Fatalf("ties must order by participant id: %s, %s", entries[1].ParticipantID, entries[2].ParticipantID)
	}
	if entries[3].Label != "Dan" {
		t.Fatalf("unexpected label: %s", entries[3].Label)
	}
}

func TestRank_TieForFirst(t *testing.T) {
	t.Parallel()

	entries := Rank(map[string]decimal.Decimal{
		"a": decimal.NewFromInt(50),
		"b": decimal.NewFromInt(50),
		"c": decimal.NewFromInt(20),
	}, nil)

	if entries[0].Rank != 1 || entries[1].Rank != 1 || entries[2].Rank != 3 {
		t.Fatalf("unexpected ranks: %d %d %d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
	if entries[0].PointsBehindLeader != nil {
		t.Fatalf("leader must not carry points behind")
	}
	if got := entries[1].PointsBehindLeader; got == nil || *got != 0 {
		t.Fatalf("entry tied with the leader should be 0 behind: got=%v", got)
	}
	if entries[2].Label != "c" {
		t.Fatalf("label should fall back to id, got %q", entries[2].Label)
	}
}

func TestRank_CoLeadersAndTrailer(t *testing.T) {
	t.Parallel()

	entries := Rank(map[string]decimal.Decimal{
		"p1": decimal.NewFromInt(40),
		"p2": decimal.NewFromInt(40),
		"p3": decimal.NewFromInt(35),
	}, nil)

	gotRanks := []int{entries[0].Rank, entries[1].Rank, entries[2].Rank}
	if !reflect.DeepEqual(gotRanks, []int{1, 1, 3}) {
		t.Fatalf("unexpected ranks: got=%v want=%v", gotRanks, []int{1, 1, 3})
	}
	gotBehind := make([]float64, 0, len(entries))
	for _, entry := range entries {
		behind := 0.0
		if entry.PointsBehindLeader != nil {
			behind = *entry.PointsBehindLeader
		}
		gotBehind = append(gotBehind, behind)
	}
	if !reflect.DeepEqual(gotBehind, []float64{0, 0, 5}) {
		t.Fatalf("unexpected points behind: got=%v want=%v", gotBehind, []float64{0, 0, 5})
	}
	if entries[1].PointsBehindLeader == nil {
		t.Fatalf("co-leader should report 0 behind, not omit it")
	}
}

// Totals are keyed by identity so two participants sharing a label never merge.
func TestParticipantTotals_KeysByIdentity(t *testing.T) {
	t.Parallel()

	items := []selection.Selection{
		{ParticipantID: "u1", Slot: "QB", PlayerID: "p1"},
		{ParticipantID: "u2", Slot: "QB", PlayerID: "p2"},
	}
	points := map[string]decimal.Decimal{"p1": decimal.NewFromInt(10), "p2": decimal.NewFromInt(7)}

	totals := ParticipantTotals(items, points)
	entries := Rank(totals, map[string]string{"u1": "Sam", "u2": "Sam"})
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].TotalPoints != 10 || entries[1].TotalPoints != 7 {
		t.Fatalf("unexpected totals: %v %v", entries[0].TotalPoints, entries[1].TotalPoints)
	}
}

func TestBuildPlayerAggregates(t *testing.T) {
	t.Parallel()

	visible := []selection.Selection{
		{ParticipantID: "u2", Slot: "QB", PlayerID: "p1"},
		{ParticipantID: "u1", Slot: "QB", PlayerID: "p1"},
		{ParticipantID: "u1", Slot: "RB", PlayerID: "p2"},
		{ParticipantID: "", Slot: "RB", PlayerID: "p3"},
	}
	points := map[string]decimal.Decimal{"p1": decimal.NewFromInt(20)}
	reported := map[string]bool{"p1": true}

	aggs := BuildPlayerAggregates(3, visible, points, reported)
	if len(aggs) != 2 {
		t.Fatalf("unexpected aggregate count: got=%d want=2", len(aggs))
	}
	first := aggs[0]
	if first.PlayerID != "p1" || first.Points != 20 || !first.HasReportedStats {
		t.Fatalf("unexpected first aggregate: %+v", first)
	}
	if !reflect.DeepEqual(first.SelectorIDs, []string{"u1", "u2"}) {
		t.Fatalf("unexpected selectors: %v", first.SelectorIDs)
	}
	if aggs[1].HasReportedStats || aggs[1].Points != 0 {
		t.Fatalf("player without stats must report zero: %+v", aggs[1])
	}

	combined := Combine(aggs, BuildPlayerAggregates(4, []selection.Selection{{ParticipantID: "u3", Slot: "QB", PlayerID: "p1"}}, map[string]decimal.Decimal{"p1": decimal.NewFromInt(5)}, nil))
	if combined[0].Period != 0 || combined[0].Points != 25 {
		t.Fatalf("unexpected combined aggregate: %+v", combined[0])
	}
	if !reflect.DeepEqual(combined[0].SelectorIDs, []string{"u1", "u2", "u3"}) {
		t.Fatalf("unexpected combined selectors: %v", combined[0].SelectorIDs)
	}
}
