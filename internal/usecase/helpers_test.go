package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/weekly-picks/internal/platform/cache"
	"github.com/riskibarqy/weekly-picks/internal/platform/id"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
)

var (
	week1Open     = time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	week1Deadline = time.Date(2026, 9, 10, 20, 20, 0, 0, time.UTC)
	week2Open     = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	contests     *memory.ContestRepository
	participants *memory.ParticipantRepository
	windows      *memory.WindowRepository
	players      *memory.PlayerRepository
	selections   *memory.SelectionRepository
	scoringRepo  *memory.ScoringRepository
	stats        *memory.PlayerStatsRepository
	runs         *memory.RefreshRunRepository
	submissions  *SubmissionReader
	clock        *testClock
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	selections := memory.NewSelectionRepository()
	return &testEnv{
		contests:     memory.NewContestRepository(memory.SeedContests()),
		participants: memory.NewParticipantRepository(),
		windows:      memory.NewWindowRepository(memory.SeedWindows()),
		players:      memory.NewPlayerRepository(memory.SeedPlayers()),
		selections:   selections,
		scoringRepo:  memory.NewScoringRepository(),
		stats:        memory.NewPlayerStatsRepository(),
		runs:         memory.NewRefreshRunRepository(),
		submissions:  NewSubmissionReader(selections, cache.NewMemoryStore(), DefaultSubmissionCacheTTL, nil),
		clock:        &testClock{now: now},
	}
}

func (e *testEnv) contestService() *ContestService {
	svc := NewContestService(e.contests, e.participants, e.windows, e.selections)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) selectionService() *SelectionService {
	svc := NewSelectionService(e.contests, e.participants, e.windows, e.players, e.selections, e.submissions, nil, logging.NewNop())
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) revealService() *RevealService {
	svc := NewRevealService(e.contests, e.participants, e.windows, e.submissions)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) leaderboardService() *LeaderboardService {
	svc := NewLeaderboardService(e.contests, e.participants, e.windows, e.selections, e.scoringRepo, e.stats, e.submissions)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) statsService(provider StatsProvider) *StatsService {
	svc := NewStatsService(
		e.contests, e.windows, e.selections, e.stats, e.scoringRepo, e.runs,
		provider, id.NewUUIDGenerator(), nil, logging.NewNop(), StatsRefreshConfig{},
	)
	svc.now = e.clock.Now
	return svc
}

func (e *testEnv) join(t *testing.T, ids ...string) {
	t.Helper()

	svc := e.contestService()
	for _, participantID := range ids {
		if _, err := svc.Join(context.Background(), memory.ContestIDWeeklyPicks, principal(participantID)); err != nil {
			t.Fatalf("join %s: %v", participantID, err)
		}
	}
}

// commit stores picks for QB, RB, WR and FLEX in that order.
func (e *testEnv) commit(t *testing.T, participantID string, number int, qb, rb, wr, flex string) {
	t.Helper()

	_, err := e.selectionService().Commit(context.Background(), CommitPicksInput{
		ContestID: memory.ContestIDWeeklyPicks,
		Principal: principal(participantID),
		Period:    number,
		Picks:     lineup(qb, rb, wr, flex),
	})
	if err != nil {
		t.Fatalf("commit %s period %d: %v", participantID, number, err)
	}
}

func principal(participantID string) participant.Principal {
	return participant.Principal{ParticipantID: participantID, Label: "label-" + participantID}
}

func operator() participant.Principal {
	return participant.Principal{ParticipantID: "ops", Label: "Ops", IsOperator: true}
}

func lineup(qb, rb, wr, flex string) []selection.Pick {
	return []selection.Pick{
		{Slot: "QB", PlayerID: qb},
		{Slot: "RB", PlayerID: rb},
		{Slot: "WR", PlayerID: wr},
		{Slot: "FLEX", PlayerID: flex},
	}
}
