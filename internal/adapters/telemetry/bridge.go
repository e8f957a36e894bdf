package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Bridge is an sdktrace.SpanProcessor that translates span lifecycle
// callbacks into renderer events. It never talks to the renderer directly:
// start and completion events go through the tracer's queue, behind any task
// output already queued for the same span, so the renderer sees a task's full
// output before its completion.
type Bridge struct {
	tracer *OTelTracer
}

// NewBridge returns a Bridge feeding the given tracer's event queue.
func NewBridge(t *OTelTracer) *Bridge {
	return &Bridge{tracer: t}
}

// OnStart queues a task start event.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.tracer.enqueue(msgTaskStart{
		SpanID:    sc.SpanID().String(),
		ParentID:  parentID,
		Name:      s.Name(),
		StartTime: s.StartTime(),
	})
}

// OnEnd queues a task completion event, carrying the span's error status.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "task failed"
		}
		err = errors.New(desc)
	}

	b.tracer.enqueue(msgTaskComplete{
		SpanID:  sc.SpanID().String(),
		EndTime: s.EndTime(),
		Err:     err,
	})
}

// ForceFlush does nothing, delivery order is already maintained by the queue.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing, the tracer owns the queue lifecycle.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
