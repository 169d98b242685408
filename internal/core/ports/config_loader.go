package ports

import "go.trai.ch/packer/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file at path and returns the parsed project.
	// Relative paths inside the file are resolved against its directory.
	Load(path string) (*domain.Project, error)
}
