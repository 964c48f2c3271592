package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/domain/statsrefresh"
	"github.com/riskibarqy/weekly-picks/internal/platform/id"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshMinInterval   = 60 * time.Second
	DefaultRefreshWorkers       = 8
	DefaultRefreshPlayerTimeout = 10 * time.Second
	defaultRefreshRunListLimit  = 20
	maxRefreshRunListLimit      = 200
)

// StatsProvider fetches one player's current stat line for a period. found is
// false when the provider has nothing for the player yet.
type StatsProvider interface {
	FetchPlayerPeriodStats(ctx context.Context, season string, periodNumber int, playerID string) (map[scoring.Category]float64, bool, error)
}

type StatsRefreshConfig struct {
	MinInterval   time.Duration
	Workers       int
	PlayerTimeout time.Duration
}

type IngestStatsResult struct {
	Merged    int
	Unchanged int
}

type WindowInput struct {
	Number   int
	OpensAt  time.Time
	Kickoffs []time.Time
}

type StatsService struct {
	contestRepo   contest.Repository
	windowRepo    period.Repository
	selectionRepo selection.Repository
	statsRepo     playerstats.Repository
	scoringRepo   scoring.Repository
	runRepo       statsrefresh.Repository
	provider      StatsProvider
	idGen         id.Generator
	metrics       *metrics.Metrics
	logger        *logging.Logger
	cfg           StatsRefreshConfig
	flight        singleflight.Group
	now           func() time.Time
}

func NewStatsService(
	contestRepo contest.Repository,
	windowRepo period.Repository,
	selectionRepo selection.Repository,
	statsRepo playerstats.Repository,
	scoringRepo scoring.Repository,
	runRepo statsrefresh.Repository,
	provider StatsProvider,
	idGen id.Generator,
	m *metrics.Metrics,
	logger *logging.Logger,
	cfg StatsRefreshConfig,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultRefreshMinInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRefreshWorkers
	}
	if cfg.PlayerTimeout <= 0 {
		cfg.PlayerTimeout = DefaultRefreshPlayerTimeout
	}
	return &StatsService{
		contestRepo:   contestRepo,
		windowRepo:    windowRepo,
		selectionRepo: selectionRepo,
		statsRepo:     statsRepo,
		scoringRepo:   scoringRepo,
		runRepo:       runRepo,
		provider:      provider,
		idGen:         idGen,
		metrics:       m,
		logger:        logger.Named("stats_refresh"),
		cfg:           cfg,
		now:           time.Now,
	}
}

// IngestStats folds pushed stat lines into storage through the merge policy.
func (s *StatsService) IngestStats(ctx context.Context, items []playerstats.PeriodStat) (IngestStatsResult, error) {
	ctx, span := traceOp(ctx, "StatsService.IngestStats")
	defer span.End()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return IngestStatsResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for category := range item.Categories {
			if !scoring.IsKnownCategory(category) {
				return IngestStatsResult{}, fmt.Errorf("%w: unknown stat category %q", ErrInvalidInput, category)
			}
		}
	}

	var result IngestStatsResult
	for _, item := range items {
		changed, err := s.mergeAndStore(ctx, item)
		if err != nil {
			return result, err
		}
		if changed {
			result.Merged++
		} else {
			result.Unchanged++
		}
	}
	return result, nil
}

func (s *StatsService) mergeAndStore(ctx context.Context, incoming playerstats.PeriodStat) (bool, error) {
	if incoming.UpdatedAt.IsZero() {
		incoming.UpdatedAt = s.now().UTC()
	}

	existing, exists, err := s.statsRepo.Get(ctx, incoming.Season, incoming.Period, incoming.PlayerID)
	if err != nil {
		return false, fmt.Errorf("get player period stat: %w", err)
	}
	merged := playerstats.Merge(existing, incoming)
	if exists && !playerstats.Changed(existing, merged) {
		return false, nil
	}
	if err := s.statsRepo.Upsert(ctx, merged); err != nil {
		return false, fmt.Errorf("upsert player period stat: %w", err)
	}
	return true, nil
}

func (s *StatsService) GetCoefficients(ctx context.Context, contestID string) (scoring.Coefficients, error) {
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return scoring.Coefficients{}, err
	}
	return pointsBook{scoringRepo: s.scoringRepo}.coefficients(ctx, c.ID)
}

func (s *StatsService) UpsertCoefficients(ctx context.Context, contestID string, coefficients scoring.Coefficients) error {
	ctx, span := traceOp(ctx, "StatsService.UpsertCoefficients")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return err
	}
	if err := coefficients.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.scoringRepo.UpsertActive(ctx, c.ID, coefficients); err != nil {
		return fmt.Errorf("upsert active coefficients: %w", err)
	}
	return nil
}

// UpsertWindows stores schedule windows. Each deadline is the earliest known
// kickoff of its period.
func (s *StatsService) UpsertWindows(ctx context.Context, contestID string, inputs []WindowInput) ([]period.Window, error) {
	ctx, span := traceOp(ctx, "StatsService.UpsertWindows")
	defer span.End()

	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}

	windows := make([]period.Window, 0, len(inputs))
	for _, input := range inputs {
		w := period.Window{
			ContestID:  c.ID,
			Number:     input.Number,
			OpensAt:    input.OpensAt.UTC(),
			DeadlineAt: period.DeadlineFromKickoffs(input.Kickoffs),
		}
		if w.DeadlineAt != nil {
			deadline := w.DeadlineAt.UTC()
			w.DeadlineAt = &deadline
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		windows = append(windows, w)
	}
	if err := s.windowRepo.UpsertWindows(ctx, c.ID, windows); err != nil {
		return nil, fmt.Errorf("upsert period windows: %w", err)
	}
	return windows, nil
}

// Refresh pulls the latest stats for every player picked in the period. A
// period of zero targets the contest's current period. Calls made before the
// minimum interval since the last successful run return RateLimitedError.
// Concurrent calls for one contest share a single in-flight run whatever
// period they name, matching the contest-wide rate limit.
func (s *StatsService) Refresh(ctx context.Context, contestID string, number int) (statsrefresh.Run, error) {
	contestID = strings.TrimSpace(contestID)
	v, err, _ := s.flight.Do(contestID, func() (any, error) {
		return s.refresh(ctx, contestID, number)
	})
	if err != nil {
		return statsrefresh.Run{}, err
	}
	return v.(statsrefresh.Run), nil
}

func (s *StatsService) refresh(ctx context.Context, contestID string, number int) (statsrefresh.Run, error) {
	ctx, span := traceOp(ctx, "StatsService.Refresh")
	defer span.End()

	if s.provider == nil {
		return statsrefresh.Run{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return statsrefresh.Run{}, err
	}

	startedAt := s.now().UTC()
	last, exists, err := s.runRepo.LastSuccessful(ctx, c.ID)
	if err != nil {
		return statsrefresh.Run{}, fmt.Errorf("get last successful refresh: %w", err)
	}
	if exists {
		if elapsed := startedAt.Sub(last.StartedAt); elapsed < s.cfg.MinInterval {
			return statsrefresh.Run{}, &RateLimitedError{LastRunAt: last.StartedAt, RetryAfter: s.cfg.MinInterval - elapsed}
		}
	}

	w, err := s.resolveWindow(ctx, c.ID, number, startedAt)
	if err != nil {
		return statsrefresh.Run{}, err
	}
	items, err := s.selectionRepo.ListByContestPeriod(ctx, c.ID, w.Number)
	if err != nil {
		return statsrefresh.Run{}, fmt.Errorf("list selections by contest period: %w", err)
	}
	playerIDs := uniquePlayerIDs(items)

	s.logger.InfoContext(ctx, "stats refresh started",
		"contest_id", c.ID,
		"period", w.Number,
		"players", len(playerIDs),
	)

	succeeded, skipped, failed, err := s.refreshPlayers(ctx, c.Season, w.Number, playerIDs)
	if err != nil {
		return statsrefresh.Run{}, err
	}

	finishedAt := s.now().UTC()
	run := statsrefresh.Run{
		ContestID:  c.ID,
		Period:     w.Number,
		Status:     statsrefresh.StatusFor(succeeded, skipped, failed),
		Succeeded:  succeeded,
		Skipped:    skipped,
		Failed:     failed,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		DurationMs: finishedAt.Sub(startedAt).Milliseconds(),
	}
	if run.Status == statsrefresh.StatusFailed {
		run.ErrorMessage = fmt.Sprintf("all %d player fetches failed", failed)
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.HasTraceID() {
		run.TraceID = spanCtx.TraceID().String()
	}
	run.ID, err = s.idGen.NewID()
	if err != nil {
		return statsrefresh.Run{}, fmt.Errorf("generate refresh run id: %w", err)
	}
	if err := s.runRepo.Insert(ctx, run); err != nil {
		return statsrefresh.Run{}, fmt.Errorf("insert refresh run: %w", err)
	}

	s.metrics.ObserveRefresh(string(run.Status), succeeded, skipped, failed, finishedAt.Sub(startedAt))
	s.logger.InfoContext(ctx, "stats refresh finished",
		"contest_id", c.ID,
		"period", w.Number,
		"status", run.Status,
		"succeeded", succeeded,
		"skipped", skipped,
		"failed", failed,
		"duration_ms", run.DurationMs,
	)
	return run, nil
}

func (s *StatsService) resolveWindow(ctx context.Context, contestID string, number int, now time.Time) (period.Window, error) {
	if number > 0 {
		return loadWindow(ctx, s.windowRepo, contestID, number)
	}
	windows, err := s.windowRepo.ListByContest(ctx, contestID)
	if err != nil {
		return period.Window{}, fmt.Errorf("list period windows: %w", err)
	}
	w, ok := period.Current(windows, now)
	if !ok {
		return period.Window{}, fmt.Errorf("%w: contest %s has no periods", ErrNotFound, contestID)
	}
	return w, nil
}

// refreshPlayers fetches and merges each player on the worker pool. One
// player's failure is counted and logged without stopping the batch.
func (s *StatsService) refreshPlayers(ctx context.Context, season string, number int, playerIDs []string) (int, int, int, error) {
	if len(playerIDs) == 0 {
		return 0, 0, 0, nil
	}

	workerCount := s.cfg.Workers
	if workerCount > len(playerIDs) {
		workerCount = len(playerIDs)
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var succeeded, skipped, failed atomic.Int32
	var wg sync.WaitGroup
	for _, playerID := range playerIDs {
		playerID := playerID
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			found, err := s.refreshPlayer(ctx, season, number, playerID)
			switch {
			case err != nil:
				failed.Add(1)
				s.logger.WarnContext(ctx, "player stats refresh failed",
					"season", season,
					"period", number,
					"player_id", playerID,
					"error", err,
				)
			case !found:
				skipped.Add(1)
			default:
				succeeded.Add(1)
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return 0, 0, 0, fmt.Errorf("submit player refresh to worker pool: %w", err)
		}
	}
	wg.Wait()

	return int(succeeded.Load()), int(skipped.Load()), int(failed.Load()), nil
}

func (s *StatsService) refreshPlayer(ctx context.Context, season string, number int, playerID string) (bool, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.PlayerTimeout)
	defer cancel()

	categories, found, err := s.provider.FetchPlayerPeriodStats(fetchCtx, season, number, playerID)
	if err != nil {
		return false, &UpstreamFetchError{PlayerID: playerID, Err: err}
	}
	if !found {
		return false, nil
	}

	known := make(map[scoring.Category]float64, len(categories))
	for category, value := range categories {
		if scoring.IsKnownCategory(category) {
			known[category] = value
		}
	}
	if _, err := s.mergeAndStore(ctx, playerstats.PeriodStat{
		Season:     season,
		Period:     number,
		PlayerID:   playerID,
		Categories: known,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshAll refreshes the current period of every contest. Rate limited
// contests are skipped quietly.
func (s *StatsService) RefreshAll(ctx context.Context) error {
	contests, err := s.contestRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list contests: %w", err)
	}

	var errs []error
	for _, c := range contests {
		if _, err := s.Refresh(ctx, c.ID, 0); err != nil {
			if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("refresh contest %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}

// RunRefreshLoop calls RefreshAll on every tick until ctx is done.
func (s *StatsService) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshAll(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled stats refresh failed", "error", err)
			}
		}
	}
}

func (s *StatsService) ListRuns(ctx context.Context, contestID string, limit int) ([]statsrefresh.Run, error) {
	c, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRefreshRunListLimit
	}
	if limit > maxRefreshRunListLimit {
		limit = maxRefreshRunListLimit
	}

	items, err := s.runRepo.ListRecent(ctx, c.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list refresh runs: %w", err)
	}
	return items, nil
}
