package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/weekly-picks/external/statsfeed"
	"github.com/riskibarqy/weekly-picks/internal/config"
	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/period"
	"github.com/riskibarqy/weekly-picks/internal/domain/player"
	"github.com/riskibarqy/weekly-picks/internal/domain/playerstats"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/domain/selection"
	"github.com/riskibarqy/weekly-picks/internal/domain/statsrefresh"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/account/introspect"
	cacherepo "github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/weekly-picks/internal/interfaces/httpapi"
	"github.com/riskibarqy/weekly-picks/internal/platform/cache"
	"github.com/riskibarqy/weekly-picks/internal/platform/id"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const cacheNamespace = "weekly-picks"

// App owns the HTTP server and every resource it depends on.
type App struct {
	Server *http.Server

	stats           *usecase.StatsService
	refreshInterval time.Duration
	logger          *logging.Logger
	closers         []func() error
}

type repositories struct {
	contests     contest.Repository
	participants participant.Repository
	windows      period.Repository
	players      player.Repository
	selections   selection.Repository
	scoring      scoring.Repository
	stats        playerstats.Repository
	runs         statsrefresh.Repository
}

// New wires storage, cache, clients and services into an HTTP server.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{
		refreshInterval: cfg.StatsRefreshInterval,
		logger:          logger.Named("app"),
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	repos, err := a.buildRepositories(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	store, err := a.buildCacheStore(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.CacheEnabled {
		repos.contests = cacherepo.NewContestRepository(repos.contests, store, cfg.CacheTTL)
		repos.windows = cacherepo.NewWindowRepository(repos.windows, store, cfg.CacheTTL)
	}

	var provider usecase.StatsProvider
	if cfg.StatsFeedEnabled {
		provider = statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:        cfg.StatsFeedBaseURL,
			APIKey:         cfg.StatsFeedAPIKey,
			Timeout:        cfg.StatsFeedTimeout,
			MaxRetries:     cfg.StatsFeedMaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.StatsFeedCircuit,
		})
	} else {
		a.logger.Info("stats feed disabled", "reason", "STATSFEED_ENABLED=false")
	}

	verifier := introspect.NewClient(introspect.Config{
		HTTPClient: &http.Client{
			Timeout:   cfg.AuthTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:        cfg.AuthBaseURL,
		IntrospectPath: cfg.AuthIntrospectPath,
		AdminKey:       cfg.AuthAdminKey,
		CacheTTL:       cfg.AuthCacheTTL,
		CacheMaxItems:  cfg.AuthCacheMaxItems,
		CircuitBreaker: cfg.AuthCircuit,
		Logger:         logger,
	})

	submissions := usecase.NewSubmissionReader(repos.selections, store, cfg.SubmissionCacheTTL, m)
	contestSvc := usecase.NewContestService(repos.contests, repos.participants, repos.windows, repos.selections)
	selectionSvc := usecase.NewSelectionService(
		repos.contests,
		repos.participants,
		repos.windows,
		repos.players,
		repos.selections,
		submissions,
		m,
		logger,
	)
	revealSvc := usecase.NewRevealService(repos.contests, repos.participants, repos.windows, submissions)
	leaderboardSvc := usecase.NewLeaderboardService(
		repos.contests,
		repos.participants,
		repos.windows,
		repos.selections,
		repos.scoring,
		repos.stats,
		submissions,
	)
	a.stats = usecase.NewStatsService(
		repos.contests,
		repos.windows,
		repos.selections,
		repos.stats,
		repos.scoring,
		repos.runs,
		provider,
		id.NewUUIDGenerator(),
		m,
		logger,
		usecase.StatsRefreshConfig{
			MinInterval:   cfg.StatsRefreshMinInterval,
			Workers:       cfg.StatsRefreshWorkers,
			PlayerTimeout: cfg.StatsRefreshPlayerTimeout,
		},
	)

	handler := httpapi.NewHandler(contestSvc, selectionSvc, revealSvc, leaderboardSvc, a.stats, logger)
	router := httpapi.NewRouter(handler, verifier, logger, m, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return a, nil
}

// RunBackground starts the periodic stats refresh when configured. It returns
// once ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	if a.refreshInterval <= 0 {
		a.logger.Info("background stats refresh disabled", "reason", "STATS_REFRESH_INTERVAL=0")
		return
	}
	a.logger.Info("background stats refresh starting", "interval", a.refreshInterval.String())
	a.stats.RunRefreshLoop(ctx, a.refreshInterval)
}

// Close releases storage and cache connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		a.logger.Info("using in-memory storage", "seed", cfg.SeedEnabled)
		var (
			contests []contest.Contest
			windows  []period.Window
			players  []player.Player
		)
		if cfg.SeedEnabled {
			contests = memory.SeedContestsWithPolicy(cfg.UseOncePolicy)
			windows = memory.SeedWindows()
			players = memory.SeedPlayers()
		}
		return repositories{
			contests:     memory.NewContestRepository(contests),
			participants: memory.NewParticipantRepository(),
			windows:      memory.NewWindowRepository(windows),
			players:      memory.NewPlayerRepository(players),
			selections:   memory.NewSelectionRepository(),
			scoring:      memory.NewScoringRepository(),
			stats:        memory.NewPlayerStatsRepository(),
			runs:         memory.NewRefreshRunRepository(),
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Info("using postgres storage", "db_name", databaseName(cfg.DBURL))

	if cfg.SeedEnabled {
		if err := postgres.BootstrapSeed(ctx, db, cfg.UseOncePolicy); err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	return repositories{
		contests:     postgres.NewContestRepository(db),
		participants: postgres.NewParticipantRepository(db),
		windows:      postgres.NewWindowRepository(db),
		players:      postgres.NewPlayerRepository(db),
		selections:   postgres.NewSelectionRepository(db),
		scoring:      postgres.NewScoringRepository(db),
		stats:        postgres.NewPlayerStatsRepository(db),
		runs:         postgres.NewRefreshRunRepository(db),
	}, nil
}

func (a *App) buildCacheStore(ctx context.Context, cfg config.Config) (cache.Store, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemoryStore(), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	return cache.NewRedisStore(client, cacheNamespace), nil
}
