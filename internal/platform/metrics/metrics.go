package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	commits         *prometheus.CounterVec
	refreshPlayers  *prometheus.CounterVec
	refreshRuns     *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weekly_picks_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weekly_picks_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weekly_picks_commits_total",
			Help: "Pick commit attempts by outcome.",
		}, []string{"outcome"}),
		refreshPlayers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weekly_picks_stats_refresh_players_total",
			Help: "Players processed by stats refresh runs by outcome.",
		}, []string{"outcome"}),
		refreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weekly_picks_stats_refresh_runs_total",
			Help: "Stats refresh runs by final status.",
		}, []string{"status"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "weekly_picks_stats_refresh_duration_seconds",
			Help:    "Duration of stats refresh runs.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weekly_picks_cache_loads_total",
			Help: "Cache loader invocations by cache name.",
		}, []string{"cache"}),
	}
	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.commits,
		m.refreshPlayers,
		m.refreshRuns,
		m.refreshDuration,
		m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		})
	}
	return m.handler
}

// Middleware records request counts and latency keyed by the ServeMux pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRefresh(status string, succeeded, skipped, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshRuns.WithLabelValues(status).Inc()
	m.refreshPlayers.WithLabelValues("succeeded").Add(float64(succeeded))
	m.refreshPlayers.WithLabelValues("skipped").Add(float64(skipped))
	m.refreshPlayers.WithLabelValues("failed").Add(float64(failed))
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *Metrics) ObserveCacheLoad(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
