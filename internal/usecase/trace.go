package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "weekly-picks/internal/usecase"

// traceOp starts "usecase.<op>" only under an existing span, so background
// refresh ticks without a request do not create root traces.
func traceOp(ctx context.Context, op string) (context.Context, trace.Span) {
	if parent := trace.SpanFromContext(ctx); !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return otel.Tracer(tracerName).Start(ctx, "usecase."+op)
}
