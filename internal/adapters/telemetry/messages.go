package telemetry

import "time"

// msgTaskStart announces a task span to the renderer.
type msgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// msgTaskLog carries a chunk of output for a specific task span.
type msgTaskLog struct {
	SpanID string
	Data   []byte
}

// msgTaskComplete closes a task span for the renderer. Err is nil on success.
type msgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// msgPlan carries the resolved execution order for the renderer.
type msgPlan struct {
	Tasks        []string
	Dependencies map[string][]string
	Targets      []string
}
