// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/packer/internal/adapters/config"
	_ "go.trai.ch/packer/internal/adapters/fs"
	_ "go.trai.ch/packer/internal/adapters/logger"
	_ "go.trai.ch/packer/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/packer/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/packer/internal/app"
	_ "go.trai.ch/packer/internal/engine/scheduler"
)
