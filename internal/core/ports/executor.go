package ports

import (
	"context"
	"io"

	"go.trai.ch/craft/internal/core/domain"
)

// Executor defines the interface for running a task's command as a child process.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the task's command with its arguments and waits for
	// completion. Process output is streamed to stdout and stderr.
	//
	// A non-zero exit is reported as a *domain.ExitError carrying the
	// child's exit code.
	Execute(ctx context.Context, task *domain.Task, stdout, stderr io.Writer) error
}
