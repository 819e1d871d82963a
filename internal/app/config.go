package app

import (
	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/config"
)

// ServeConfig carries the resolved configuration and the options it was
// loaded from, which the application reuses to hot-reload the config file.
type ServeConfig struct {
	Config domain.Config
	Source config.Options
}
