package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/internal/biomegatron"
	"github.com/JaimeStill/renci-ner/internal/nameres"
	"github.com/JaimeStill/renci-ner/internal/nodenorm"
	"github.com/JaimeStill/renci-ner/internal/sapbert"
	"github.com/JaimeStill/renci-ner/pkg/cache"
	"github.com/JaimeStill/renci-ner/pkg/lifecycle"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

// System owns the remote service clients and the pipelines built on them.
type System interface {
	// Pipeline returns the pipeline for method, or the default method when empty.
	Pipeline(method string) (*Pipeline, error)
	// Run annotates text with the named method.
	Run(ctx context.Context, method, text string, req Request) (*Result, error)
	// Methods describes every pipeline.
	Methods() []MethodInfo
	// Services describes every configured service.
	Services() []ServiceInfo
	// Resolve discovers service versions synchronously.
	Resolve(ctx context.Context)
	// Start registers version discovery with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// Clients holds one service client per remote service.
type Clients struct {
	BioMegatron *service.Client
	NameRes     *service.Client
	SAPBERT     *service.Client
	NodeNorm    *service.Client
}

func (c Clients) all() []*service.Client {
	return []*service.Client{c.BioMegatron, c.NameRes, c.SAPBERT, c.NodeNorm}
}

// MethodInfo describes a pipeline.
type MethodInfo struct {
	Name    string                  `json:"name"`
	Default bool                    `json:"default"`
	Stages  []annotation.Provenance `json:"stages"`
}

// ServiceInfo describes one remote service.
type ServiceInfo struct {
	Role                string                `json:"role"`
	Provenance          annotation.Provenance `json:"provenance"`
	SupportedProperties map[string]string     `json:"supported_properties"`
}

type system struct {
	cfg       *Config
	clients   Clients
	pipelines map[string]*Pipeline
	services  []serviceEntry
	logger    *slog.Logger
}

type serviceEntry struct {
	role       string
	provenance func() annotation.Provenance
	props      map[string]string
}

// New builds every pipeline from clients. Linkers are wrapped in a result
// cache when cfg.CacheSize is positive.
func New(cfg *Config, clients Clients, metrics *service.Metrics, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "pipeline")

	recognizer := biomegatron.New(clients.BioMegatron)
	normalizer := nodenorm.New(clients.NodeNorm)

	var nameresLinker, sapbertLinker annotation.Annotator = nameres.New(clients.NameRes), sapbert.New(clients.SAPBERT)
	if cfg.CacheSize > 0 {
		var err error
		if nameresLinker, err = cache.New(nameresLinker, cfg.CacheSize); err != nil {
			return nil, fmt.Errorf("nameres cache: %w", err)
		}
		if sapbertLinker, err = cache.New(sapbertLinker, cfg.CacheSize); err != nil {
			return nil, fmt.Errorf("sapbert cache: %w", err)
		}
	}

	onFailure := func(p annotation.Provenance, _ error) {
		metrics.ObserveFailure(p.Name)
	}

	build := func(name string, linker annotation.Annotator) *Pipeline {
		return &Pipeline{
			Name:        name,
			Recognizer:  recognizer,
			Linker:      linker,
			Normalizer:  normalizer,
			concurrency: cfg.Concurrency,
			timeout:     cfg.TimeoutDuration(),
			limit:       cfg.DefaultLimit,
			onFailure:   onFailure,
			logger:      logger,
		}
	}

	return &system{
		cfg:     cfg,
		clients: clients,
		pipelines: map[string]*Pipeline{
			MethodSAPBERT: build(MethodSAPBERT, sapbertLinker),
			MethodNameRes: build(MethodNameRes, nameresLinker),
		},
		services: []serviceEntry{
			{"recognizer", recognizer.Provenance, recognizer.SupportedProperties()},
			{"linker", nameresLinker.Provenance, nameresLinker.SupportedProperties()},
			{"linker", sapbertLinker.Provenance, sapbertLinker.SupportedProperties()},
			{"normalizer", normalizer.Provenance, normalizer.SupportedProperties()},
		},
		logger: logger,
	}, nil
}

func (s *system) Pipeline(method string) (*Pipeline, error) {
	if method == "" {
		method = s.cfg.DefaultMethod
	}
	p, ok := s.pipelines[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return p, nil
}

func (s *system) Run(ctx context.Context, method, text string, req Request) (*Result, error) {
	p, err := s.Pipeline(method)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, text, req)
}

func (s *system) Methods() []MethodInfo {
	out := make([]MethodInfo, 0, len(s.pipelines))
	for _, name := range slices.Sorted(maps.Keys(s.pipelines)) {
		out = append(out, MethodInfo{
			Name:    name,
			Default: name == s.cfg.DefaultMethod,
			Stages:  s.pipelines[name].Stages(),
		})
	}
	return out
}

func (s *system) Services() []ServiceInfo {
	out := make([]ServiceInfo, len(s.services))
	for i, e := range s.services {
		out[i] = ServiceInfo{
			Role:                e.role,
			Provenance:          e.provenance(),
			SupportedProperties: e.props,
		}
	}
	return out
}

func (s *system) Resolve(ctx context.Context) {
	service.ResolveAll(ctx, s.clients.all()...)
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting pipeline services")
	for _, c := range s.clients.all() {
		if err := c.Start(lc); err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}
	}
	return nil
}
