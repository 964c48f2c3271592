package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/weekly-picks/internal/platform/cache"
	"github.com/riskibarqy/weekly-picks/internal/platform/id"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/metrics"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
)

const (
	testContestID = memory.ContestIDWeeklyPicks
	testJobToken  = "job-secret"
)

type fakeVerifier struct {
	principals map[string]participant.Principal
}

func (v fakeVerifier) VerifyAccessToken(_ context.Context, token string) (participant.Principal, error) {
	p, ok := v.principals[token]
	if !ok {
		return participant.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type noStatsProvider struct{}

func (noStatsProvider) FetchPlayerPeriodStats(context.Context, string, int, string) (map[scoring.Category]float64, bool, error) {
	return nil, false, nil
}

func newTestRouter(t *testing.T, cfg RouterConfig, m *metrics.Metrics) http.Handler {
	t.Helper()

	contests := memory.NewContestRepository(memory.SeedContests())
	participants := memory.NewParticipantRepository()
	windows := memory.NewWindowRepository(memory.SeedWindows())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	selections := memory.NewSelectionRepository()
	scoringRepo := memory.NewScoringRepository()
	stats := memory.NewPlayerStatsRepository()
	runs := memory.NewRefreshRunRepository()
	submissions := usecase.NewSubmissionReader(selections, cache.NewMemoryStore(), time.Minute, m)
	logger := logging.NewNop()

	handler := NewHandler(
		usecase.NewContestService(contests, participants, windows, selections),
		usecase.NewSelectionService(contests, participants, windows, players, selections, submissions, m, logger),
		usecase.NewRevealService(contests, participants, windows, submissions),
		usecase.NewLeaderboardService(contests, participants, windows, selections, scoringRepo, stats, submissions),
		usecase.NewStatsService(contests, windows, selections, stats, scoringRepo, runs, noStatsProvider{},
			id.NewUUIDGenerator(), m, logger, usecase.StatsRefreshConfig{}),
		logger,
	)

	verifier := fakeVerifier{principals: map[string]participant.Principal{
		"token-alice": {ParticipantID: "alice", Label: "Alice"},
		"token-bob":   {ParticipantID: "bob", Label: "Bob"},
		"token-op":    {ParticipantID: "ops", Label: "Ops", IsOperator: true},
	}}
	if cfg.InternalJobToken == "" {
		cfg.InternalJobToken = testJobToken
	}
	return NewRouter(handler, verifier, logger, m, cfg)
}

type apiResponse struct {
	Code int
	Body map[string]any
	Raw  *httptest.ResponseRecorder
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) apiResponse {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case token == testJobToken:
		req.Header.Set("X-Internal-Job-Token", token)
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	out := apiResponse{Code: rec.Code, Raw: rec}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out.Body); err != nil {
			t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
		}
	}
	return out
}

func (r apiResponse) errorReasons() []string {
	errObj, _ := r.Body["error"].(map[string]any)
	items, _ := errObj["errors"].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		reason, _ := m["reason"].(string)
		out = append(out, reason)
	}
	return out
}

// openWindows adds periods that accept submissions at wall-clock time.
func openWindows(t *testing.T, router http.Handler, numbers ...int) {
	t.Helper()

	opens := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	kickoff := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	items := make([]string, 0, len(numbers))
	for _, n := range numbers {
		items = append(items, fmt.Sprintf(`{"number":%d,"opens_at_utc":%q,"kickoffs_utc":[%q]}`, n, opens, kickoff))
	}
	resp := doRequest(t, router, http.MethodPut, "/v1/internal/contests/"+testContestID+"/windows", testJobToken,
		`{"windows":[`+strings.Join(items, ",")+`]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("upsert windows: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
}

func join(t *testing.T, router http.Handler, token string) {
	t.Helper()

	resp := doRequest(t, router, http.MethodPost, "/v1/contests/"+testContestID+"/join", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("join: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
}

func picksBody(qb, rb, wr, flex string) string {
	return fmt.Sprintf(`{"picks":[{"slot":"QB","player_id":%q},{"slot":"RB","player_id":%q},{"slot":"WR","player_id":%q},{"slot":"FLEX","player_id":%q}]}`,
		qb, rb, wr, flex)
}

func periodPath(n int, suffix string) string {
	return fmt.Sprintf("/v1/contests/%s/periods/%d/%s", testContestID, n, suffix)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	resp := doRequest(t, router, http.MethodGet, "/healthz", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusOK)
	}
}

func TestRouter_ListContestsIsPublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	resp := doRequest(t, router, http.MethodGet, "/v1/contests", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusOK)
	}
	items, _ := resp.Body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("unexpected contest count: got=%d want=1", len(items))
	}
	first, _ := items[0].(map[string]any)
	if first["id"] != testContestID || first["use_once_policy"] != "lock_on_attempt" {
		t.Fatalf("unexpected contest payload: %+v", first)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "unknown token", token: "token-mallory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, router, http.MethodGet, "/v1/contests/"+testContestID+"/periods", tt.token, "")
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_InternalRoutesRequireJobToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	resp := doRequest(t, router, http.MethodGet, "/v1/internal/contests/"+testContestID+"/coefficients", "token-op", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusUnauthorized)
	}

	resp = doRequest(t, router, http.MethodGet, "/v1/internal/contests/"+testContestID+"/coefficients", testJobToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusOK)
	}
	data, _ := resp.Body["data"].(map[string]any)
	if data["pass_touchdown"] != float64(5) {
		t.Fatalf("expected default coefficients, got %+v", data)
	}
}

func TestRouter_CommitAndRevealFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	openWindows(t, router, 10)
	join(t, router, "token-alice")
	join(t, router, "token-bob")

	resp := doRequest(t, router, http.MethodPut, periodPath(10, "picks"), "token-alice",
		picksBody("qb-allen", "rb-henry", "wr-chase", "te-kelce"))
	if resp.Code != http.StatusOK {
		t.Fatalf("commit alice: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "reveal"), "token-bob", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("reveal bob: got=%d want=%d", resp.Code, http.StatusOK)
	}
	status, _ := resp.Body["data"].(map[string]any)
	if status["can_view"] != false || status["submitted_count"] != float64(1) || status["total_participants"] != float64(2) {
		t.Fatalf("unexpected reveal status before bob submits: %+v", status)
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "picks"), "token-bob", "")
	data, _ := resp.Body["data"].(map[string]any)
	if picks, _ := data["picks"].([]any); len(picks) != 0 {
		t.Fatalf("bob must not see picks before submitting: %+v", picks)
	}

	resp = doRequest(t, router, http.MethodPut, periodPath(10, "picks"), "token-bob",
		picksBody("qb-mahomes", "rb-barkley", "wr-lamb", "te-bowers"))
	if resp.Code != http.StatusOK {
		t.Fatalf("commit bob: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "picks"), "token-bob", "")
	data, _ = resp.Body["data"].(map[string]any)
	if picks, _ := data["picks"].([]any); len(picks) != 8 {
		t.Fatalf("unexpected visible picks after bob submits: got=%d want=8", len(picks))
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "picks/me"), "token-alice", "")
	if mine, _ := resp.Body["data"].([]any); len(mine) != 4 {
		t.Fatalf("unexpected own picks: got=%d want=4", len(mine))
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "status"), "token-alice", "")
	status, _ = resp.Body["data"].(map[string]any)
	if status["state"] != "SUBMITTED" {
		t.Fatalf("unexpected period state: %+v", status)
	}

	resp = doRequest(t, router, http.MethodGet, "/v1/contests/"+testContestID+"/leaderboard?periods=10", "token-alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("leaderboard: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
	if entries, _ := resp.Body["data"].([]any); len(entries) != 2 {
		t.Fatalf("unexpected leaderboard size: got=%d want=2", len(entries))
	}
}

func TestRouter_CommitErrors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	openWindows(t, router, 10, 11)
	join(t, router, "token-alice")

	resp := doRequest(t, router, http.MethodPut, periodPath(10, "picks"), "token-alice",
		picksBody("qb-allen", "rb-henry", "wr-chase", "te-kelce"))
	if resp.Code != http.StatusOK {
		t.Fatalf("commit: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}

	tests := []struct {
		name       string
		period     int
		body       string
		wantStatus int
		wantReason string
	}{
		{
			name:       "incomplete submission",
			period:     11,
			body:       `{"picks":[{"slot":"QB","player_id":"qb-hurts"}]}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "missingSlot",
		},
		{
			name:       "player already used",
			period:     11,
			body:       picksBody("qb-allen", "rb-gibbs", "wr-lamb", "te-laporta"),
			wantStatus: http.StatusConflict,
			wantReason: "playerAlreadyUsed",
		},
		{
			name:       "already committed",
			period:     10,
			body:       picksBody("qb-hurts", "rb-gibbs", "wr-lamb", "te-laporta"),
			wantStatus: http.StatusConflict,
			wantReason: "selectionLocked",
		},
		{
			name:       "ineligible player",
			period:     11,
			body:       picksBody("rb-gibbs", "qb-hurts", "wr-lamb", "te-laporta"),
			wantStatus: http.StatusBadRequest,
			wantReason: "ineligiblePlayer",
		},
		{
			name:       "closed period",
			period:     1,
			body:       picksBody("qb-hurts", "rb-gibbs", "wr-lamb", "te-laporta"),
			wantStatus: http.StatusConflict,
			wantReason: "periodClosed",
		},
		{
			name:       "unknown json field",
			period:     11,
			body:       `{"picks":[],"extra":true}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalidInput",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, router, http.MethodPut, periodPath(tt.period, "picks"), "token-alice", tt.body)
			if resp.Code != tt.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", resp.Code, tt.wantStatus, resp.Raw.Body.String())
			}
			reasons := resp.errorReasons()
			if len(reasons) == 0 || reasons[0] != tt.wantReason {
				t.Fatalf("unexpected error reasons: got=%v want=%s", reasons, tt.wantReason)
			}
		})
	}
}

func TestRouter_ForbiddenPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	openWindows(t, router, 10, 11)
	join(t, router, "token-alice")
	doRequest(t, router, http.MethodPut, periodPath(10, "picks"), "token-alice",
		picksBody("qb-allen", "rb-henry", "wr-chase", "te-kelce"))

	resp := doRequest(t, router, http.MethodGet, periodPath(11, "forbidden-players"), "token-alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusOK)
	}
	items, _ := resp.Body["data"].([]any)
	if len(items) != 4 {
		t.Fatalf("unexpected forbidden count: got=%d want=4", len(items))
	}
}

func TestRouter_ClearPicksRequiresOperator(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	openWindows(t, router, 10)
	join(t, router, "token-alice")
	doRequest(t, router, http.MethodPut, periodPath(10, "picks"), "token-alice",
		picksBody("qb-allen", "rb-henry", "wr-chase", "te-kelce"))

	resp := doRequest(t, router, http.MethodDelete, periodPath(10, "picks/alice"), "token-bob", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("unexpected status for non-operator: got=%d want=%d", resp.Code, http.StatusForbidden)
	}

	resp = doRequest(t, router, http.MethodDelete, periodPath(10, "picks/alice"), "token-op", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status for operator: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
	data, _ := resp.Body["data"].(map[string]any)
	if data["removed"] != float64(4) {
		t.Fatalf("unexpected removed count: %+v", data)
	}

	resp = doRequest(t, router, http.MethodGet, periodPath(10, "picks/me"), "token-alice", "")
	if mine, _ := resp.Body["data"].([]any); len(mine) != 0 {
		t.Fatalf("expected picks to be cleared, got %d", len(mine))
	}
}

func TestRouter_ContestPlayerAggregates(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	openWindows(t, router, 12)
	join(t, router, "token-alice")
	join(t, router, "token-bob")

	for token, body := range map[string]string{
		"token-alice": picksBody("qb-allen", "rb-henry", "wr-chase", "te-kelce"),
		"token-bob":   picksBody("qb-allen", "rb-barkley", "wr-lamb", "te-bowers"),
	} {
		resp := doRequest(t, router, http.MethodPut, periodPath(12, "picks"), token, body)
		if resp.Code != http.StatusOK {
			t.Fatalf("commit %s: got=%d want=%d body=%s", token, resp.Code, http.StatusOK, resp.Raw.Body.String())
		}
	}

	resp := doRequest(t, router, http.MethodGet, "/v1/contests/"+testContestID+"/players", "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status without token: got=%d want=%d", resp.Code, http.StatusUnauthorized)
	}

	resp = doRequest(t, router, http.MethodGet, "/v1/contests/"+testContestID+"/players", "token-alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("contest players: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
	items, _ := resp.Body["data"].([]any)
	found := false
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		if item["period"] != float64(0) {
			t.Fatalf("contest roll-up should carry period 0: %+v", item)
		}
		if item["player_id"] == "qb-allen" && item["slot"] == "QB" {
			found = true
			if selectors, _ := item["selectors"].([]any); len(selectors) != 2 {
				t.Fatalf("unexpected selectors for qb-allen: %+v", selectors)
			}
		}
	}
	if !found {
		t.Fatalf("qb-allen missing from contest roll-up: %+v", items)
	}
}

func TestRouter_InvalidPeriodPath(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	resp := doRequest(t, router, http.MethodGet, "/v1/contests/"+testContestID+"/periods/zero/status", "token-alice", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusBadRequest)
	}
}

func TestRouter_IngestStatsAndRename(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, nil)
	body := `{"items":[{"season":"2026","period":1,"player_id":"qb-allen","stats":{"passTD":2,"passYds":250}}]}`
	resp := doRequest(t, router, http.MethodPost, "/v1/internal/stats", testJobToken, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("ingest: got=%d want=%d body=%s", resp.Code, http.StatusOK, resp.Raw.Body.String())
	}
	data, _ := resp.Body["data"].(map[string]any)
	if data["merged"] != float64(1) {
		t.Fatalf("unexpected ingest result: %+v", data)
	}

	resp = doRequest(t, router, http.MethodPost, "/v1/internal/stats", testJobToken, body)
	data, _ = resp.Body["data"].(map[string]any)
	if data["unchanged"] != float64(1) {
		t.Fatalf("expected identical line to be unchanged: %+v", data)
	}

	resp = doRequest(t, router, http.MethodPost, "/v1/internal/stats", testJobToken,
		`{"items":[{"season":"2026","period":1,"player_id":"qb-allen","stats":{"sacks":1}}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: got=%d want=%d", resp.Code, http.StatusBadRequest)
	}

	join(t, router, "token-alice")
	resp = doRequest(t, router, http.MethodPut, "/v1/contests/"+testContestID+"/participants/me", "token-alice", `{"label":"Ace"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("rename: got=%d want=%d", resp.Code, http.StatusOK)
	}
	data, _ = resp.Body["data"].(map[string]any)
	if data["id"] != "alice" || data["label"] != "Ace" {
		t.Fatalf("unexpected rename payload: %+v", data)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{RateLimitPerMinute: 1}, nil)
	if resp := doRequest(t, router, http.MethodGet, "/v1/contests", "", ""); resp.Code != http.StatusOK {
		t.Fatalf("first request: got=%d want=%d", resp.Code, http.StatusOK)
	}
	resp := doRequest(t, router, http.MethodGet, "/v1/contests", "", "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got=%d want=%d", resp.Code, http.StatusTooManyRequests)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, RouterConfig{}, metrics.New())
	doRequest(t, router, http.MethodGet, "/v1/contests", "", "")

	resp := doRequest(t, router, http.MethodGet, "/metrics", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.Code, http.StatusOK)
	}
	if !strings.Contains(resp.Raw.Body.String(), `weekly_picks_http_requests_total{code="200",route="GET /v1/contests"}`) {
		t.Fatalf("expected request counter for contest listing, got:\n%s", resp.Raw.Body.String())
	}
}
