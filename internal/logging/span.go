package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span marks a unit of work inside a request so that its log lines share
// trace and span identifiers. Engagement writes open one per operation.
type Span struct {
	logger *slog.Logger
	op     string
	began  time.Time
}

// StartSpan opens a span named after the operation. The returned context
// carries a logger enriched with the trace id, the new span id, and the
// parent span id when the span is nested.
func StartSpan(ctx context.Context, op string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := FromContext(ctx)

	if TraceIDFromContext(ctx) == "" {
		traceID := uuid.NewString()
		ctx = WithTraceID(ctx, traceID)
		logger = logger.With(slog.String("trace_id", traceID))
	}

	spanID := uuid.NewString()
	attrs := []any{slog.String("span_id", spanID), slog.String("op", op)}
	if parent := SpanIDFromContext(ctx); parent != "" {
		attrs = append(attrs, slog.String("parent_span_id", parent))
	}
	logger = logger.With(attrs...)

	ctx = WithSpanID(ctx, spanID)
	ctx = WithLogger(ctx, logger)

	return ctx, &Span{logger: logger, op: op, began: time.Now()}
}

// End emits the span's completion line. Safe to call on a nil span.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Info("span finished", slog.Int64("elapsed_ms", time.Since(s.began).Milliseconds()))
}
