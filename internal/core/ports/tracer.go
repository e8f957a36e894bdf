package ports

import (
	"context"
	"io"
)

// SpanConfig holds configuration for a span.
type SpanConfig struct{}

// SpanOption configures a span at creation time.
type SpanOption func(*SpanConfig)

// Span represents one traced task execution. It doubles as an io.Writer so
// the executor can stream process output into the trace.
type Span interface {
	io.Writer

	// End completes the span.
	End()
	// RecordError records an error for the span and marks it failed.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Tracer defines the interface for emitting execution telemetry.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a new span for the named task.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// EmitPlan signals that a sequence of tasks has been planned for execution.
	EmitPlan(ctx context.Context, tasks []string, deps map[string][]string, targets []string)

	// Shutdown stops background processing and flushes pending events.
	Shutdown(ctx context.Context) error
}
