package ports

import "go.trai.ch/graphcache/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting at the given working directory.
	// When no configuration file exists, defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Config, error)
}
