// Package api assembles the annotation API module and its generated
// OpenAPI document.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/infrastructure"
	"github.com/JaimeStill/renci-ner/pkg/middleware"
	"github.com/JaimeStill/renci-ner/pkg/module"
)

// NewModule creates the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
	)

	return m, nil
}
