package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/weekly-picks/internal/domain/contest"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "weekly-picks-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StorageMemory || cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("unexpected backends: storage=%s cache=%s", cfg.StorageDriver, cfg.CacheBackend)
	}
	if cfg.UseOncePolicy != contest.UseOnceLockOnAttempt {
		t.Fatalf("unexpected use-once policy: %s", cfg.UseOncePolicy)
	}
	if cfg.StatsRefreshMinInterval != 60*time.Second {
		t.Fatalf("unexpected refresh min interval: %s", cfg.StatsRefreshMinInterval)
	}
	if cfg.StatsRefreshInterval != 0 {
		t.Fatalf("background refresh should be off by default: %s", cfg.StatsRefreshInterval)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("unexpected rate limit: %d", cfg.RateLimitPerMinute)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.LogFormat != logging.FormatJSON || cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log settings: format=%s level=%s", cfg.LogFormat, cfg.LogLevel)
	}
	if !cfg.AuthCircuit.Enabled || cfg.AuthCircuit.FailureThreshold != 5 || cfg.AuthCircuit.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected auth circuit defaults: %+v", cfg.AuthCircuit)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `x-other=1, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "weekly-picks-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "weekly-picks-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://picks.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://picks.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_StorageAndCacheBackends(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "postgres", env: map[string]string{"STORAGE_DRIVER": "Postgres"}},
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "sqlite"}, wantErr: true},
		{name: "redis", env: map[string]string{"CACHE_BACKEND": "redis", "REDIS_ADDR": "redis:6379", "REDIS_DB": "2"}},
		{name: "unknown cache", env: map[string]string{"CACHE_BACKEND": "memcached"}, wantErr: true},
		{name: "negative redis db", env: map[string]string{"REDIS_DB": "-1"}, wantErr: true},
		{name: "invalid binary parameters flag", env: map[string]string{"DB_BINARY_PARAMETERS": "not-bool"}, wantErr: true},
		{name: "zero open conns", env: map[string]string{"DB_MAX_OPEN_CONNS": "0"}, wantErr: true},
		{name: "invalid cache ttl", env: map[string]string{"CACHE_TTL": "bad"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for env %+v", tc.env)
				}
				return
			}
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if v, ok := tc.env["STORAGE_DRIVER"]; ok && cfg.StorageDriver != StoragePostgres {
				t.Fatalf("unexpected storage driver for %q: %s", v, cfg.StorageDriver)
			}
			if _, ok := tc.env["CACHE_BACKEND"]; ok && (cfg.CacheBackend != CacheBackendRedis || cfg.RedisDB != 2) {
				t.Fatalf("unexpected cache config: backend=%s db=%d", cfg.CacheBackend, cfg.RedisDB)
			}
		})
	}
}

func TestLoad_StatsRefreshConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("USE_ONCE_POLICY", "lock_on_complete")
		t.Setenv("STATS_REFRESH_MIN_INTERVAL", "2m")
		t.Setenv("STATS_REFRESH_WORKERS", "4")
		t.Setenv("STATS_REFRESH_INTERVAL", "5m")
		t.Setenv("STATSFEED_ENABLED", "true")
		t.Setenv("STATSFEED_BASE_URL", "https://feed.example.com")
		t.Setenv("STATSFEED_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.UseOncePolicy != contest.UseOnceLockOnComplete {
			t.Fatalf("unexpected policy: %s", cfg.UseOncePolicy)
		}
		if cfg.StatsRefreshMinInterval != 2*time.Minute || cfg.StatsRefreshWorkers != 4 || cfg.StatsRefreshInterval != 5*time.Minute {
			t.Fatalf("unexpected refresh config: %+v", cfg)
		}
		if !cfg.StatsFeedEnabled || cfg.StatsFeedCircuit.FailureThreshold != 3 {
			t.Fatalf("unexpected stats feed config: enabled=%t circuit=%+v", cfg.StatsFeedEnabled, cfg.StatsFeedCircuit)
		}
	})

	t.Run("invalid policy", func(t *testing.T) {
		t.Setenv("USE_ONCE_POLICY", "never")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid USE_ONCE_POLICY")
		}
	})

	t.Run("negative interval", func(t *testing.T) {
		t.Setenv("STATS_REFRESH_INTERVAL", "-1m")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative STATS_REFRESH_INTERVAL")
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("STATS_REFRESH_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STATS_REFRESH_WORKERS=0")
		}
	})

	t.Run("circuit half open must be positive", func(t *testing.T) {
		t.Setenv("STATSFEED_CIRCUIT_HALF_OPEN_MAX_REQ", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STATSFEED_CIRCUIT_HALF_OPEN_MAX_REQ=0")
		}
	})
}

func TestLoad_AuthConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("AUTH_CACHE_TTL", "0s")
	t.Setenv("AUTH_CIRCUIT_ENABLED", "false")
	t.Setenv("INTERNAL_JOB_TOKEN", " job-token ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthCacheTTL != 0 {
		t.Fatalf("zero AUTH_CACHE_TTL should disable the cache: %s", cfg.AuthCacheTTL)
	}
	if cfg.AuthCircuit.Enabled {
		t.Fatalf("expected auth circuit disabled")
	}
	if cfg.InternalJobToken != "job-token" {
		t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
	}
}
