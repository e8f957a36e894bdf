// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/craft/internal/adapters/config"
	_ "go.trai.ch/craft/internal/adapters/installer"
	_ "go.trai.ch/craft/internal/adapters/logger"
	_ "go.trai.ch/craft/internal/adapters/shell"
	_ "go.trai.ch/craft/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/craft/internal/app"
	_ "go.trai.ch/craft/internal/engine/resolver"
)
