package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	traceKey
)

// trace carries the identifiers stitched onto every request-scoped log line.
// It is stored as a single value and copied on write, so deriving a child
// context never mutates the parent's view.
type trace struct {
	requestID string
	traceID   string
	spanID    string
}

func traceFromContext(ctx context.Context) trace {
	if ctx == nil {
		return trace{}
	}
	tr, _ := ctx.Value(traceKey).(trace)
	return tr
}

// WithLogger stores the request-scoped logger on the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request-scoped logger, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithRequestID records the request identifier assigned by the HTTP layer.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	tr := traceFromContext(ctx)
	tr.requestID = requestID
	return context.WithValue(ctx, traceKey, tr)
}

// RequestIDFromContext retrieves the request identifier, if any.
func RequestIDFromContext(ctx context.Context) string {
	return traceFromContext(ctx).requestID
}

// WithTraceID records the trace identifier shared by all spans of a request.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if ctx == nil || traceID == "" {
		return ctx
	}
	tr := traceFromContext(ctx)
	tr.traceID = traceID
	return context.WithValue(ctx, traceKey, tr)
}

// TraceIDFromContext retrieves the trace identifier, if any.
func TraceIDFromContext(ctx context.Context) string {
	return traceFromContext(ctx).traceID
}

// WithSpanID records the identifier of the span currently in progress.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	if ctx == nil || spanID == "" {
		return ctx
	}
	tr := traceFromContext(ctx)
	tr.spanID = spanID
	return context.WithValue(ctx, traceKey, tr)
}

// SpanIDFromContext retrieves the current span identifier, if any.
func SpanIDFromContext(ctx context.Context) string {
	return traceFromContext(ctx).spanID
}
