package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("weekly-picks/internal/interfaces/httpapi")

// startHandlerSpan opens a child span for a handler. Requests that arrive
// without a recording parent (filtered probes, direct handler tests) get the
// request context back unchanged.
func startHandlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+name, trace.WithAttributes(handlerAttributes(r)...))
}

func handlerAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if id := r.PathValue("contestID"); id != "" {
		attrs = append(attrs, attribute.String("contest.id", id))
	}
	if p := r.PathValue("period"); p != "" {
		attrs = append(attrs, attribute.String("contest.period", p))
	}
	return attrs
}
