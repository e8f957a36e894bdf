package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/craft/internal/adapters/logger"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated
// testing. NO_COLOR=1 keeps the output free of ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple message",
			msg:        "some message",
			goldenName: "info_basic",
		},
		{
			name:       "empty message",
			msg:        "",
			goldenName: "info_empty",
		},
		{
			name:       "multiline message",
			msg:        "line1\nline2",
			goldenName: "info_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple warning",
			msg:        "some warning",
			goldenName: "warn_basic",
		},
		{
			name:       "multiline warning",
			msg:        "warn1\nwarn2",
			goldenName: "warn_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Warn(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_PlainError(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("configuration file not found"))

	out := buf.String()
	assert.Contains(t, out, "Error: configuration file not found")
}

func TestLogger_Error_WrappedStdError(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("permission denied")
	lg.Error(fmt.Errorf("failed to read craft.yaml: %w", inner))

	// A plain wrapped error renders its full text on the first line.
	out := buf.String()
	assert.Contains(t, out, "Error: failed to read craft.yaml: permission denied")
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSONMode(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("structured message")

	out := buf.String()
	require.Contains(t, out, `"msg":"structured message"`)
	require.Contains(t, out, `"level":"INFO"`)
}

func TestLogger_JSONMode_Error(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(errors.New("boom"))

	out := buf.String()
	require.Contains(t, out, `"error":"boom"`)
}
