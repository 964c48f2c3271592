package httpapi

import (
	"net/http"

	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	InternalJobToken   string
	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	m *metrics.Metrics,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, m)
	registerPublicContestRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, verifier)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	root := recoverPanic(logger, m.Middleware(mux))
	root = RateLimit(cfg.RateLimitPerMinute, root)
	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, root)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
