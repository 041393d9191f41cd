package api

import (
	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific settings.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxBodySize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		MaxBodySize:    cfg.API.MaxBodySizeBytes(),
	}
}
