package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/renci-ner/internal/api"
	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/infrastructure"
	"github.com/JaimeStill/renci-ner/pkg/handlers"
	"github.com/JaimeStill/renci-ner/pkg/middleware"
	"github.com/JaimeStill/renci-ner/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.Use(
		middleware.RequestID(),
		middleware.Recover(infra.Logger),
	)

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "not ready",
				"pending": infra.Lifecycle.Pending(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ready",
			"services": infra.Pipelines.Services(),
		})
	})

	router.Handle("GET /metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{
		Registry: infra.Registry,
	}))

	return router
}
