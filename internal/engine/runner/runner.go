// Package runner executes a resolved task sequence.
package runner

import (
	"context"

	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/craft/internal/core/ports"
	"go.trai.ch/craft/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// Runner executes tasks in dependency order, one child process at a time.
// Execution is deliberately serial: later tasks may depend on filesystem side
// effects (created directories, installed binaries) of earlier ones.
type Runner struct {
	resolver  *resolver.Resolver
	executor  ports.Executor
	installer ports.Installer
	tracer    ports.Tracer
	logger    ports.Logger
}

// New creates a new Runner with the given dependencies.
func New(
	res *resolver.Resolver,
	executor ports.Executor,
	installer ports.Installer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Runner {
	return &Runner{
		resolver:  res,
		executor:  executor,
		installer: installer,
		tracer:    tracer,
		logger:    logger,
	}
}

// Run resolves the target and executes the resulting sequence. The first
// failing task stops the run unless it is marked ignore_errors, in which
// case the failure is logged and the sequence continues.
func (r *Runner) Run(ctx context.Context, reg *domain.Registry, target string) error {
	order, err := r.resolver.Resolve(reg, target)
	if err != nil {
		return err
	}

	planned := make([]string, len(order))
	deps := make(map[string][]string, len(order))
	for i := range order {
		name := order[i].Name.String()
		planned[i] = name
		taskDeps := make([]string, len(order[i].Dependencies))
		for j, dep := range order[i].Dependencies {
			taskDeps[j] = dep.String()
		}
		deps[name] = taskDeps
	}
	r.tracer.EmitPlan(ctx, planned, deps, []string{target})

	for i := range order {
		task := &order[i]

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.runTask(ctx, task); err != nil {
			if task.IgnoreErrors {
				r.logger.Warn("task " + task.Name.String() + " failed, continuing (ignore_errors)")
				continue
			}
			return zerr.With(
				zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()),
				"task", task.Name.String(),
			)
		}
	}

	return nil
}

// runTask executes a single task: installation guard first, then the command.
func (r *Runner) runTask(ctx context.Context, task *domain.Task) error {
	ctx, span := r.tracer.Start(ctx, task.Name.String())
	defer span.End()

	if task.Install != nil {
		span.SetAttribute("craft.crate", task.Install.CrateName)
		if err := r.installer.EnsureInstalled(ctx, task.Install, span, span); err != nil {
			span.RecordError(err)
			return err
		}
	}

	// Tasks without a command aggregate their dependencies and succeed trivially.
	if !task.HasCommand() {
		return nil
	}

	if err := r.executor.Execute(ctx, task, span, span); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}
