package httpapi

import (
	"net/http"

	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Metrics) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
}

func registerPublicContestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/contests", handler.ListContests)
	mux.HandleFunc("GET /v1/contests/{contestID}", handler.GetContest)
	mux.HandleFunc("GET /v1/contests/{contestID}/participants", handler.ListParticipants)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, fn)
	}

	mux.Handle("POST /v1/contests/{contestID}/join", auth(handler.JoinContest))
	mux.Handle("PUT /v1/contests/{contestID}/participants/me", auth(handler.RenameParticipant))
	mux.Handle("GET /v1/contests/{contestID}/summary/me", auth(handler.GetMySummary))
	mux.Handle("GET /v1/contests/{contestID}/leaderboard", auth(handler.GetContestLeaderboard))
	mux.Handle("GET /v1/contests/{contestID}/players", auth(handler.ListContestPlayerAggregates))

	mux.Handle("GET /v1/contests/{contestID}/periods", auth(handler.ListPeriods))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/status", auth(handler.GetPeriodStatus))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/picks/me", auth(handler.GetMyPicks))
	mux.Handle("PUT /v1/contests/{contestID}/periods/{period}/picks", auth(handler.CommitPicks))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/picks", auth(handler.ListVisiblePicks))
	mux.Handle("DELETE /v1/contests/{contestID}/periods/{period}/picks/{participantID}", auth(handler.ClearParticipantPicks))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/forbidden-players", auth(handler.ListForbiddenPlayers))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/reveal", auth(handler.GetRevealStatus))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/players", auth(handler.ListPlayerAggregates))
	mux.Handle("GET /v1/contests/{contestID}/periods/{period}/leaderboard", auth(handler.GetPeriodLeaderboard))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	job := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, fn)
	}

	mux.Handle("PUT /v1/internal/contests/{contestID}/windows", job(handler.UpsertWindows))
	mux.Handle("GET /v1/internal/contests/{contestID}/coefficients", job(handler.GetCoefficients))
	mux.Handle("PUT /v1/internal/contests/{contestID}/coefficients", job(handler.UpsertCoefficients))
	mux.Handle("POST /v1/internal/contests/{contestID}/periods/{period}/refresh", job(handler.RefreshPeriodStats))
	mux.Handle("GET /v1/internal/contests/{contestID}/refresh-runs", job(handler.ListRefreshRuns))
	mux.Handle("POST /v1/internal/stats", job(handler.IngestStats))
}
