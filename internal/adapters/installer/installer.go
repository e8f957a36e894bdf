// Package installer guards tasks that need a tool to be present.
package installer

import (
	"context"
	"io"

	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/craft/internal/core/ports"
	"go.trai.ch/zerr"
)

// defaultInstallCommand is used when the configuration does not override
// the installer.
var defaultInstallCommand = []string{"cargo", "install"}

// Installer implements ports.Installer by probing for the tool's binary and
// running the install command only when the probe fails. Running the guard
// twice in a row is therefore a no-op after a successful installation.
type Installer struct {
	executor ports.Executor
	logger   ports.Logger
}

// New creates a new Installer that runs probe and install commands through
// the given executor.
func New(executor ports.Executor, logger ports.Logger) *Installer {
	return &Installer{executor: executor, logger: logger}
}

// EnsureInstalled makes sure the tool described by spec is available. The
// probe invocation (binary with the configured test argument) decides: a
// zero exit means the tool is present and the install step is skipped.
func (i *Installer) EnsureInstalled(
	ctx context.Context,
	spec *domain.InstallSpec,
	stdout, stderr io.Writer,
) error {
	probe := &domain.Task{
		Name:    domain.NewInternedString("probe:" + spec.Binary),
		Command: spec.Binary,
	}
	if spec.TestArg != "" {
		probe.Args = []string{spec.TestArg}
	}

	// Probe output is diagnostic noise when the tool is present, so it is
	// discarded unless the probe fails and an install follows.
	if err := i.executor.Execute(ctx, probe, io.Discard, io.Discard); err == nil {
		return nil
	}

	i.logger.Info(spec.Binary + " not found, installing " + spec.CrateName)

	prefix := spec.InstallCommand
	if len(prefix) == 0 {
		prefix = defaultInstallCommand
	}

	install := &domain.Task{
		Name:    domain.NewInternedString("install:" + spec.CrateName),
		Command: prefix[0],
		Args:    append(append([]string{}, prefix[1:]...), spec.CrateName),
	}

	if err := i.executor.Execute(ctx, install, stdout, stderr); err != nil {
		err = zerr.Wrap(err, domain.ErrInstallFailed.Error())
		return zerr.With(err, "crate", spec.CrateName)
	}

	return nil
}
