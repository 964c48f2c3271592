package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health probe", msg: "http request", args: []any{"method", "GET", "path", "/healthz"}, want: true},
		{name: "metrics scrape", msg: "http request", args: []any{"path", "/metrics"}, want: true},
		{name: "api request", msg: "http request", args: []any{"path", "/v1/contests"}, want: false},
		{name: "other event", msg: "stats refresh finished", args: []any{"path", "/healthz"}, want: false},
	}
	for _, tc := range cases {
		if got := shouldSkipUptraceLog(tc.msg, tc.args); got != tc.want {
			t.Fatalf("%s: got=%t want=%t", tc.name, got, tc.want)
		}
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{"contest_id", "nfl-2026-weekly-picks", "period", 3, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "contest_id" || attrs[0].Value.AsString() != "nfl-2026-weekly-picks" {
		t.Fatalf("unexpected contest_id attribute")
	}
	if attrs[1].Key != "period" || attrs[1].Value.AsInt64() != 3 {
		t.Fatalf("unexpected period attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	t.Parallel()

	v := toOTelLogValue(map[string]any{
		"succeeded": 11,
		"complete":  true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 || items[0].Key != "complete" {
		t.Fatalf("unexpected map items: %+v", items)
	}
}

func TestToOTelSeverity(t *testing.T) {
	t.Parallel()

	if toOTelSeverity(zapcore.WarnLevel) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if toOTelSeverity(zapcore.ErrorLevel) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}

func TestToOTelLogValue_Scalars(t *testing.T) {
	t.Parallel()

	type period int
	n := 7
	cases := []struct {
		name string
		in   any
		want otellog.Kind
	}{
		{name: "named int", in: period(3), want: otellog.KindInt64},
		{name: "uint", in: uint32(9), want: otellog.KindInt64},
		{name: "float", in: 12.5, want: otellog.KindFloat64},
		{name: "pointer", in: &n, want: otellog.KindInt64},
		{name: "nil", in: nil, want: otellog.KindEmpty},
		{name: "slice", in: []string{"qb-allen", "rb-henry"}, want: otellog.KindSlice},
		{name: "bytes", in: []byte("raw"), want: otellog.KindBytes},
	}
	for _, tc := range cases {
		if got := toOTelLogValue(tc.in, 0).Kind(); got != tc.want {
			t.Fatalf("%s: got=%s want=%s", tc.name, got, tc.want)
		}
	}
}

func TestBuildOTelLogAttributes_NonStringKey(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{42, "value"})
	if len(attrs) != 1 || attrs[0].Key != "arg_0" {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
}
