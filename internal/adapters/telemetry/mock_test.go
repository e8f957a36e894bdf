package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// mockRenderer is a simple test double for ports.Renderer. It records the
// order in which events arrive.
type mockRenderer struct {
	mu            sync.Mutex
	planCalls     int
	startCalls    int
	logCalls      int
	completeCalls int
	logs          [][]byte
	events        []string
}

func (m *mockRenderer) Start(_ context.Context) error { return nil }
func (m *mockRenderer) Stop() error                   { return nil }
func (m *mockRenderer) Wait() error                   { return nil }

func (m *mockRenderer) OnPlanEmit(_ []string, _ map[string][]string, _ []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planCalls++
	m.events = append(m.events, "plan")
}

func (m *mockRenderer) OnTaskStart(_, _, _ string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
	m.events = append(m.events, "start")
}

func (m *mockRenderer) OnTaskLog(_ string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls++
	m.logs = append(m.logs, data)
	m.events = append(m.events, "log")
}

func (m *mockRenderer) OnTaskComplete(_ string, _ time.Time, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	m.events = append(m.events, "complete")
}

func (m *mockRenderer) counts() (plan, start, log, complete int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planCalls, m.startCalls, m.logCalls, m.completeCalls
}

func (m *mockRenderer) eventOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockRenderer) allLogs() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, l := range m.logs {
		out = append(out, l...)
	}
	return out
}
