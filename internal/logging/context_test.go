package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestTraceIdentifiersRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithSpanID(ctx, "span-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("expected request id req-1, got %q", got)
	}
	if got := TraceIDFromContext(ctx); got != "trace-1" {
		t.Fatalf("expected trace id trace-1, got %q", got)
	}
	if got := SpanIDFromContext(ctx); got != "span-1" {
		t.Fatalf("expected span id span-1, got %q", got)
	}
}

func TestChildContextDoesNotMutateParent(t *testing.T) {
	parent := WithSpanID(WithTraceID(context.Background(), "trace-1"), "span-parent")
	child := WithSpanID(parent, "span-child")

	if got := SpanIDFromContext(parent); got != "span-parent" {
		t.Fatalf("parent span id changed to %q", got)
	}
	if got := SpanIDFromContext(child); got != "span-child" {
		t.Fatalf("expected child span id span-child, got %q", got)
	}
	if got := TraceIDFromContext(child); got != "trace-1" {
		t.Fatalf("child must inherit the trace id, got %q", got)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected the default logger for a bare context")
	}

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected the stored logger back")
	}
}

func TestStartSpanEnrichesLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithLogger(context.Background(), slog.New(slog.NewJSONHandler(buf, nil)))

	ctx, span := StartSpan(ctx, "engagement.toggle")
	if TraceIDFromContext(ctx) == "" || SpanIDFromContext(ctx) == "" {
		t.Fatal("expected trace and span ids on the derived context")
	}

	_, child := StartSpan(ctx, "engagement.toggle.retry")
	child.End()
	span.End()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected two span completion lines, got %d", len(lines))
	}

	var line map[string]any
	if err := json.Unmarshal(lines[0], &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["op"] != "engagement.toggle.retry" {
		t.Fatalf("expected the child span's op, got %v", line["op"])
	}
	if line["parent_span_id"] != SpanIDFromContext(ctx) {
		t.Fatalf("expected parent_span_id %q, got %v", SpanIDFromContext(ctx), line["parent_span_id"])
	}
	if line["trace_id"] != TraceIDFromContext(ctx) {
		t.Fatalf("expected trace_id %q, got %v", TraceIDFromContext(ctx), line["trace_id"])
	}
}
