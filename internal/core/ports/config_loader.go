// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/craft/internal/core/domain"

// ConfigLoader defines the interface for loading the task configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting from the given working
	// directory and returns the task registry.
	Load(cwd string) (*domain.Registry, error)

	// DiscoverRoot walks up from cwd to find the directory containing
	// the configuration file.
	DiscoverRoot(cwd string) (string, error)
}
