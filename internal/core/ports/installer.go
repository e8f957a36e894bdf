package ports

import (
	"context"
	"io"

	"go.trai.ch/craft/internal/core/domain"
)

// Installer defines the interface for the installation guard of installation tasks.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// EnsureInstalled probes for the tool described by spec and installs it
	// when the probe fails. A succeeding probe makes the call a no-op, which
	// keeps installation tasks idempotent.
	EnsureInstalled(ctx context.Context, spec *domain.InstallSpec, stdout, stderr io.Writer) error
}
