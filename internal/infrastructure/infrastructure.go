// Package infrastructure assembles the dependencies shared by the server and
// the CLI: lifecycle coordination, logging, metrics, the remote service
// clients, and the pipelines built on them.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/renci-ner/internal/biomegatron"
	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/nameres"
	"github.com/JaimeStill/renci-ner/internal/nodenorm"
	"github.com/JaimeStill/renci-ner/internal/pipeline"
	"github.com/JaimeStill/renci-ner/internal/sapbert"
	"github.com/JaimeStill/renci-ner/pkg/lifecycle"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

// Infrastructure holds the systems every entry point needs.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *service.Metrics
	Clients   pipeline.Clients
	Pipelines pipeline.System
}

type options struct {
	logOutput  io.Writer
	httpClient *http.Client
}

// Option customizes New.
type Option func(*options)

// WithLogOutput sends log output to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithHTTPClient makes every service client use hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New creates an Infrastructure from cfg. Nothing contacts the remote
// services until Start registers version discovery.
func New(cfg *config.Config, opts ...Option) (*Infrastructure, error) {
	o := &options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(o.logOutput, &slog.HandlerOptions{Level: cfg.Level()}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(reg)

	clientOpts := []service.Option{
		service.WithMetrics(metrics),
		service.WithLogger(logger),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, service.WithHTTPClient(o.httpClient))
	}

	clients := pipeline.Clients{
		BioMegatron: service.New(biomegatron.Name, &cfg.Services.BioMegatron, clientOpts...),
		NameRes:     service.New(nameres.Name, &cfg.Services.NameRes, clientOpts...),
		SAPBERT:     service.New(sapbert.Name, &cfg.Services.SAPBERT, clientOpts...),
		NodeNorm:    service.New(nodenorm.Name, &cfg.Services.NodeNorm, clientOpts...),
	}

	pipelines, err := pipeline.New(&cfg.Pipeline, clients, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Registry:  reg,
		Metrics:   metrics,
		Clients:   clients,
		Pipelines: pipelines,
	}, nil
}

// Start registers the pipeline services with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Pipelines.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("pipeline start failed: %w", err)
	}
	return nil
}
