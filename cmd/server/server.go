package main

import (
	"time"

	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/infrastructure"
)

// Server serves the annotation API beside the health and metrics endpoints.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"base_path", cfg.API.BasePath,
		"version", cfg.Version,
		"env", cfg.Env(),
		"default_method", cfg.Pipeline.DefaultMethod,
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start begins serving immediately. Version discovery runs in the
// background; /readyz reports 503 until it settles.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go s.awaitServices()
	return nil
}

func (s *Server) awaitServices() {
	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		s.infra.Logger.Warn("service discovery reported errors", "error", err)
	}
	for _, svc := range s.infra.Pipelines.Services() {
		s.infra.Logger.Info(
			"service resolved",
			"role", svc.Role,
			"service", svc.Provenance.Name,
			"version", svc.Provenance.Version,
			"url", svc.Provenance.URL,
		)
	}
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
