package memory

import (
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/player"
)

const (
	ContestIDWeeklyPicks = "nfl-2026-weekly-picks"
	SeasonNFL2026        = "2026"
)

func SeedContests() []contest.Contest {
	return []contest.Contest{
		{
			ID:     ContestIDWeeklyPicks,
			Name:   "Weekly Picks 2026",
			Season: SeasonNFL2026,
			Slots: []contest.Slot{
				{Name: "QB", EligiblePositions: []string{"QB"}},
				{Name: "RB", EligiblePositions: []string{"RB"}},
				{Name: "WR", EligiblePositions: []string{"WR"}},
				{Name: "FLEX", EligiblePositions: []string{"RB", "WR", "TE"}},
			},
			UseOncePolicy: contest.UseOnceLockOnAttempt,
		},
	}
}

// SeedContestsWithPolicy returns the seed contests governed by policy.
func SeedContestsWithPolicy(policy contest.UseOncePolicy) []contest.Contest {
	out := SeedContests()
	if policy == "" {
		return out
	}
	for i := range out {
		out[i].UseOncePolicy = policy
	}
	return out
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "qb-allen", Name: "Josh Allen", Position: "QB", TeamCode: "BUF"},
		{ID: "qb-mahomes", Name: "Patrick Mahomes", Position: "QB", TeamCode: "KC"},
		{ID: "qb-hurts", Name: "Jalen Hurts", Position: "QB", TeamCode: "PHI"},
		{ID: "qb-jackson", Name: "Lamar Jackson", Position: "QB", TeamCode: "BAL"},
		{ID: "rb-barkley", Name: "Saquon Barkley", Position: "RB", TeamCode: "PHI"},
		{ID: "rb-henry", Name: "Derrick Henry", Position: "RB", TeamCode: "BAL"},
		{ID: "rb-gibbs", Name: "Jahmyr Gibbs", Position: "RB", TeamCode: "DET"},
		{ID: "rb-robinson", Name: "Bijan Robinson", Position: "RB", TeamCode: "ATL"},
		{ID: "wr-chase", Name: "Ja'Marr Chase", Position: "WR", TeamCode: "CIN"},
		{ID: "wr-jefferson", Name: "Justin Jefferson", Position: "WR", TeamCode: "MIN"},
		{ID: "wr-lamb", Name: "CeeDee Lamb", Position: "WR", TeamCode: "DAL"},
		{ID: "wr-stbrown", Name: "Amon-Ra St. Brown", Position: "WR", TeamCode: "DET"},
		{ID: "te-kelce", Name: "Travis Kelce", Position: "TE", TeamCode: "KC"},
		{ID: "te-laporta", Name: "Sam LaPorta", Position: "TE", TeamCode: "DET"},
		{ID: "te-bowers", Name: "Brock Bowers", Position: "TE", TeamCode: "LV"},
	}
}

// SeedWindows opens each week on Tuesday and locks it at the Thursday night
// kickoff.
func SeedWindows() []period.Window {
	firstOpen := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	out := make([]period.Window, 0, 4)
	for week := 1; week <= 4; week++ {
		opensAt := firstOpen.AddDate(0, 0, 7*(week-1))
		deadline := opensAt.Add(56*time.Hour + 20*time.Minute)
		out = append(out, period.Window{
			ContestID:  ContestIDWeeklyPicks,
			Number:     week,
			OpensAt:    opensAt,
			DeadlineAt: &deadline,
		})
	}
	return out
}
