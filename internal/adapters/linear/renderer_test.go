package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/craft/internal/adapters/linear"
)

func newTestRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return linear.NewRenderer(stdout, stderr), stdout, stderr
}

func TestRenderer_OnPlanEmit(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	r.OnPlanEmit([]string{"format", "build"}, nil, []string{"build"})

	out := stderr.String()
	assert.Contains(t, out, "Running 2 task(s) for build")
	assert.Contains(t, out, "format build")
}

func TestRenderer_TaskLifecycle(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)

	start := time.Now()
	r.OnTaskStart("span-1", "", "build", start)
	r.OnTaskLog("span-1", []byte("Compiling craft v0.1.0\n"))
	r.OnTaskComplete("span-1", start.Add(2*time.Second), nil)

	assert.Contains(t, stdout.String(), "[build] Compiling craft v0.1.0")
	assert.Contains(t, stderr.String(), "[build] Starting...")
	assert.Contains(t, stderr.String(), "Completed in 2s")
}

func TestRenderer_PartialLinesBufferedUntilComplete(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	start := time.Now()
	r.OnTaskStart("span-1", "", "test", start)

	r.OnTaskLog("span-1", []byte("running 3 "))
	assert.Empty(t, stdout.String(), "partial line must not be printed")

	r.OnTaskLog("span-1", []byte("tests\n"))
	assert.Contains(t, stdout.String(), "[test] running 3 tests")
}

func TestRenderer_CompleteFlushesPartialLine(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	start := time.Now()
	r.OnTaskStart("span-1", "", "lint", start)
	r.OnTaskLog("span-1", []byte("no trailing newline"))
	r.OnTaskComplete("span-1", start.Add(time.Second), nil)

	assert.Contains(t, stdout.String(), "[lint] no trailing newline")
}

func TestRenderer_TaskFailure(t *testing.T) {
	r, _, stderr := newTestRenderer(t)

	start := time.Now()
	r.OnTaskStart("span-1", "", "build", start)
	r.OnTaskComplete("span-1", start.Add(time.Second), errors.New("exit status 101"))

	out := stderr.String()
	assert.Contains(t, out, "Failed after 1s")
	assert.Contains(t, out, "exit status 101")
}

func TestRenderer_UnknownSpanIgnored(t *testing.T) {
	r, stdout, stderr := newTestRenderer(t)

	before := stderr.Len()
	r.OnTaskLog("unknown", []byte("orphan output\n"))
	r.OnTaskComplete("unknown", time.Now(), nil)

	assert.Empty(t, stdout.String())
	assert.Equal(t, before, stderr.Len())
}

func TestRenderer_StopFlushesBuffers(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	r.OnTaskStart("span-1", "", "docs", time.Now())
	r.OnTaskLog("span-1", []byte("partial"))

	require.NoError(t, r.Stop())
	assert.Contains(t, stdout.String(), "[docs] partial")
	require.NoError(t, r.Wait())
}

func TestRenderer_MultipleTasksKeepPrefixes(t *testing.T) {
	r, stdout, _ := newTestRenderer(t)

	start := time.Now()
	r.OnTaskStart("span-1", "", "build", start)
	r.OnTaskStart("span-2", "", "docs", start)

	r.OnTaskLog("span-1", []byte("building\n"))
	r.OnTaskLog("span-2", []byte("rendering\n"))

	out := stdout.String()
	assert.Contains(t, out, "[build] building")
	assert.Contains(t, out, "[docs] rendering")
}
