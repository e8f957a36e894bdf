// Package shell provides a process-based executor for running tasks.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. Stdout and stderr are
// kept as separate pipes so the child's streams stay distinguishable.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the task's command and waits for it to complete. A non-zero
// exit is returned as a *domain.ExitError carrying the child's exit code.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, stdout, stderr io.Writer) error {
	if !task.HasCommand() {
		return nil
	}

	cmd := exec.CommandContext(ctx, task.Command, task.Args...) //nolint:gosec // user provided command
	cmd.Env = resolveEnvironment(os.Environ(), task.Environment)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = nil

	if dir := task.WorkingDir.String(); dir != "" {
		cmd.Dir = dir
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &domain.ExitError{
				Task: task.Name.String(),
				Code: exitErr.ExitCode(),
				Err:  err,
			}
		}
		return zerr.With(
			zerr.Wrap(err, "failed to start command"),
			"command", task.Command,
		)
	}

	return nil
}

// resolveEnvironment layers the task's environment over the process
// environment. Tasks inherit everything so cargo, PATH lookups and locale
// settings behave the same as a manual invocation.
func resolveEnvironment(sysEnv []string, taskEnv map[string]string) []string {
	if len(taskEnv) == 0 {
		return sysEnv
	}

	env := make([]string, len(sysEnv), len(sysEnv)+len(taskEnv))
	copy(env, sysEnv)
	for k, v := range taskEnv {
		// Later entries win in os/exec, so overrides are appended.
		env = append(env, k+"="+v)
	}
	return env
}
