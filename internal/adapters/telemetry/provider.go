package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/craft/internal/core/ports"
)

// LogBufferSize determines the size of the async log channel.
const LogBufferSize = 4096

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// Every renderer event travels through a single queue: span starts, batched
// task output, and span completions are delivered in the order they were
// produced, so a task's output always reaches the renderer before the task is
// reported complete.
type OTelTracer struct {
	name     string
	renderer ports.Renderer
	logChan  chan any
	done     chan struct{}
	shutdown sync.Once
	mu       sync.RWMutex
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
// The underlying otel tracer is resolved per span, so spans always go through
// the provider installed at that point, not the one from construction time.
func NewOTelTracer(name string) *OTelTracer {
	t := &OTelTracer{
		name:    name,
		logChan: make(chan any, LogBufferSize), // Buffered to handle bursts
		done:    make(chan struct{}),
	}
	go t.runLoop()
	return t
}

func (t *OTelTracer) runLoop() {
	defer close(t.done)

	for msg := range t.logChan {
		t.mu.RLock()
		renderer := t.renderer
		t.mu.RUnlock()

		if renderer == nil {
			continue
		}

		switch m := msg.(type) {
		case msgTaskStart:
			renderer.OnTaskStart(m.SpanID, m.ParentID, m.Name, m.StartTime)
		case msgTaskLog:
			renderer.OnTaskLog(m.SpanID, m.Data)
		case msgTaskComplete:
			renderer.OnTaskComplete(m.SpanID, m.EndTime, m.Err)
		case msgPlan:
			renderer.OnPlanEmit(m.Tasks, m.Dependencies, m.Targets)
		}
	}
}

// enqueue hands a message to the run loop. The send blocks when the buffer is
// full; the run loop drains continuously, so this only backpressures while
// the renderer catches up.
func (t *OTelTracer) enqueue(msg any) {
	t.logChan <- msg
}

// Shutdown stops the background processor after every queued event has been
// delivered. All spans must have ended before Shutdown is called.
func (t *OTelTracer) Shutdown(_ context.Context) error {
	t.shutdown.Do(func() {
		close(t.logChan)
	})
	<-t.done
	return nil
}

// WithRenderer sets the renderer to forward task output and plan events to.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := otel.Tracer(t.name).Start(ctx, name)

	t.mu.RLock()
	renderer := t.renderer
	t.mu.RUnlock()

	var batcher *BatchProcessor
	if renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		cb := func(data []byte) {
			t.enqueue(msgTaskLog{SpanID: spanID, Data: data})
		}
		batcher = NewBatchProcessor(0, 0, cb)
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan records the resolved execution order on the current span and
// forwards it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, tasks []string, deps map[string][]string, targets []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("tasks", tasks),
			attribute.StringSlice("targets", targets),
		))
	}

	t.mu.RLock()
	renderer := t.renderer
	t.mu.RUnlock()

	if renderer != nil {
		t.enqueue(msgPlan{
			Tasks:        tasks,
			Dependencies: deps,
			Targets:      targets,
		})
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End completes the span. The batcher is closed first so its final flush is
// queued before the completion event the span processor emits.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span and marks it failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Batcher exposes the span's batch processor.
func (s *OTelSpan) Batcher() *BatchProcessor {
	return s.batcher
}

// Write satisfies io.Writer by streaming process output into the batcher,
// or recording it as a span event when no renderer is attached.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
