package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def", want: "abc.def"},
		{name: "case insensitive scheme", header: "bearer   tok ", want: "tok"},
		{name: "missing", header: "", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcg==", wantErr: true},
		{name: "empty token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := bearerToken(req)
			if tt.wantErr {
				if !errors.Is(err, usecase.ErrUnauthorized) {
					t.Fatalf("expected unauthorized error, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("bearerToken: got=%q err=%v want=%q", got, err, tt.want)
			}
		})
	}
}

type stubVerifier struct {
	principal participant.Principal
	err       error
	gotToken  string
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (participant.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{principal: participant.Principal{ParticipantID: "user-1"}}
	var seen participant.Principal
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if verifier.gotToken != "token-1" || seen.ParticipantID != "user-1" {
		t.Fatalf("unexpected principal propagation: token=%q user=%q", verifier.gotToken, seen.ParticipantID)
	}

	rejected := RequireAuth(&stubVerifier{err: usecase.ErrUnauthorized}, http.NotFoundHandler())
	rec = httptest.NewRecorder()
	rejected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status for rejected token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		provided   string
		want       int
	}{
		{name: "match", configured: "secret", provided: "secret", want: http.StatusNoContent},
		{name: "mismatch", configured: "secret", provided: "guess", want: http.StatusUnauthorized},
		{name: "unconfigured", configured: " ", provided: "", want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireInternalJobToken(tt.configured, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs", nil)
			req.Header.Set(internalJobTokenHeader, tt.provided)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   zapcore.Level
	}{
		{status: http.StatusOK, want: zapcore.InfoLevel},
		{status: http.StatusConflict, want: zapcore.WarnLevel},
		{status: http.StatusBadGateway, want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			logger := logging.FromZap(zap.New(core))
			handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/contests", nil))

			entries := logs.FilterMessage("http request").All()
			if len(entries) != 1 {
				t.Fatalf("unexpected log count: got=%d want=1", len(entries))
			}
			if entries[0].Level != tt.want {
				t.Fatalf("unexpected level: got=%s want=%s", entries[0].Level, tt.want)
			}
			fields := entries[0].ContextMap()
			if fields["status"] != int64(tt.status) || fields["bytes"] != int64(4) || fields["path"] != "/v1/contests" {
				t.Fatalf("unexpected fields: %v", fields)
			}
		})
	}
}
