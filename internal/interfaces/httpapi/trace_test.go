package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestStartHandlerSpan_WithoutParentKeepsContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/v1/contests/nfl", nil)
	ctx, span := startHandlerSpan(req, "GetContest")
	defer span.End()

	if ctx != req.Context() {
		t.Fatalf("expected request context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected non-recording span without parent")
	}
}

func TestStartHandlerSpan_WithParentKeepsTrace(t *testing.T) {
	t.Parallel()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	req := httptest.NewRequest(http.MethodGet, "/v1/contests/nfl", nil)
	req = req.WithContext(trace.ContextWithSpanContext(context.Background(), parent))

	_, span := startHandlerSpan(req, "GetContest")
	defer span.End()

	if got := span.SpanContext().TraceID(); got != parent.TraceID() {
		t.Fatalf("unexpected trace id: got=%s want=%s", got, parent.TraceID())
	}
}

func TestHandlerAttributes(t *testing.T) {
	t.Parallel()

	var got []attribute.KeyValue
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/contests/{contestID}/periods/{period}/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		got = handlerAttributes(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/contests/nfl/periods/3/leaderboard", nil))

	want := map[attribute.Key]string{
		"http.route":     "GET /v1/contests/{contestID}/periods/{period}/leaderboard",
		"contest.id":     "nfl",
		"contest.period": "3",
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected attribute count: got=%d want=%d", len(got), len(want))
	}
	for _, kv := range got {
		if want[kv.Key] != kv.Value.AsString() {
			t.Fatalf("unexpected %s: got=%q want=%q", kv.Key, kv.Value.AsString(), want[kv.Key])
		}
	}
}
