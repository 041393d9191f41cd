package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/internal/pipeline"
	"github.com/JaimeStill/renci-ner/internal/servicetest"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

type fixture struct {
	system   pipeline.System
	servers  map[string]*servicetest.Server
	registry *prometheus.Registry
}

type overrides map[string]map[string]http.HandlerFunc

func newFixture(t *testing.T, cfg *pipeline.Config, o overrides) *fixture {
	t.Helper()

	routes := map[string]map[string]http.HandlerFunc{
		"BioMegatron": servicetest.BioMegatron(),
		"NameRes":     servicetest.NameRes(),
		"SAPBERT":     servicetest.SAPBERT(),
		"NodeNorm":    servicetest.NodeNorm(),
	}
	for name, r := range o {
		routes[name] = r
	}

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)

	servers := make(map[string]*servicetest.Server)
	clients := make(map[string]*service.Client)
	for name, r := range routes {
		servers[name] = servicetest.NewServer(t, "1.0.0", r)
		clients[name] = servers[name].Client(name, service.WithMetrics(metrics))
	}

	if cfg == nil {
		cfg = &pipeline.Config{}
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys, err := pipeline.New(cfg, pipeline.Clients{
		BioMegatron: clients["BioMegatron"],
		NameRes:     clients["NameRes"],
		SAPBERT:     clients["SAPBERT"],
		NodeNorm:    clients["NodeNorm"],
	}, metrics, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sys.Resolve(context.Background())

	return &fixture{system: sys, servers: servers, registry: reg}
}

func provNames(e annotation.Entity) []string {
	var names []string
	for _, p := range e.Base().Provenances {
		names = append(names, p.Name)
	}
	return names
}

func TestLinkingStageLineage(t *testing.T) {
	for _, method := range pipeline.Methods {
		t.Run(method, func(t *testing.T) {
			f := newFixture(t, nil, nil)
			p, err := f.system.Pipeline(method)
			if err != nil {
				t.Fatalf("Pipeline: %v", err)
			}

			ctx := context.Background()
			recognized, err := p.Recognizer.Annotate(ctx, servicetest.BrainText, nil)
			if err != nil {
				t.Fatalf("recognize: %v", err)
			}
			if recognized.Len() != 2 {
				t.Fatalf("recognized = %d, want 2", recognized.Len())
			}

			linked, err := recognized.Reannotate(ctx, p.Linker, annotation.Props{"limit": 1})
			if err != nil {
				t.Fatalf("link: %v", err)
			}
			if linked.Text != servicetest.BrainText || linked.Len() != 2 {
				t.Fatalf("linked = %d annotations over %q", linked.Len(), linked.Text)
			}

			for i, e := range linked.Annotations {
				base := e.Base()
				want := []string{"BioMegatron", p.Linker.Provenance().Name}
				if diff := cmp.Diff(want, provNames(e)); diff != "" {
					t.Errorf("annotation %d provenances (-want +got):\n%s", i, diff)
				}
				if len(base.BasedOn) != 1 || base.BasedOn[0] != recognized.Annotations[i] {
					t.Errorf("annotation %d should be based on recognized span %d", i, i)
				}
			}

			if diff := cmp.Diff([]string{"UBERON:0000955", "UBERON:0001016"}, linked.IDs()); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun(t *testing.T) {
	f := newFixture(t, nil, nil)

	result, err := f.system.Run(context.Background(), pipeline.MethodNameRes, servicetest.BrainText, pipeline.Request{Limit: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Method != pipeline.MethodNameRes || result.RunID.String() == "" {
		t.Errorf("unexpected result header %+v", result)
	}

	anns := result.Result.Annotations
	if len(anns) != 2 {
		t.Fatalf("annotations = %d, want 2", len(anns))
	}

	wantTypes := []string{"biolink:GrossAnatomicalStructure", "biolink:AnatomicalEntity"}
	for i, e := range anns {
		n, ok := e.(*annotation.NormalizedAnnotation)
		if !ok {
			t.Fatalf("annotation %d is %T", i, e)
		}
		if n.BiolinkType() != wantTypes[i] {
			t.Errorf("annotation %d biolink type = %q, want %q", i, n.BiolinkType(), wantTypes[i])
		}
		if diff := cmp.Diff([]string{"BioMegatron", "NameRes", "NodeNorm"}, provNames(n)); diff != "" {
			t.Errorf("annotation %d provenances (-want +got):\n%s", i, diff)
		}
		if len(n.BasedOn) != 2 {
			t.Errorf("annotation %d based_on = %d, want 2", i, len(n.BasedOn))
		}
		if n.Start != 0 || n.End != len(n.Text) {
			t.Errorf("annotation %d span = [%d,%d)", i, n.Start, n.End)
		}
	}
}

func TestRunDefaultMethodAndLimit(t *testing.T) {
	f := newFixture(t, &pipeline.Config{DefaultLimit: 2}, nil)

	result, err := f.system.Run(context.Background(), "", servicetest.BrainText, pipeline.Request{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Method != pipeline.MethodSAPBERT {
		t.Errorf("Method = %q, want default", result.Method)
	}
	// brain has two sapbert matches, nervous system one
	if got := result.Result.Len(); got != 3 {
		t.Errorf("annotations = %d, want 3", got)
	}
}

func TestRunLimitPrecedence(t *testing.T) {
	tests := []struct {
		name string
		req  pipeline.Request
		want string
	}{
		{"configured default", pipeline.Request{}, "1"},
		{"linker property", pipeline.Request{Props: annotation.Props{"limit": 3}}, "3"},
		{"decoded linker property", pipeline.Request{Props: annotation.Props{"limit": float64(2)}}, "2"},
		{"request limit wins", pipeline.Request{Limit: 2, Props: annotation.Props{"limit": 3}}, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)

			if _, err := f.system.Run(context.Background(), pipeline.MethodNameRes, servicetest.BrainText, tt.req); err != nil {
				t.Fatalf("Run: %v", err)
			}

			var lookups int
			for _, r := range f.servers["NameRes"].Requests() {
				if r.URL.Path != "/lookup" {
					continue
				}
				lookups++
				if got := r.URL.Query().Get("limit"); got != tt.want {
					t.Errorf("lookup %q limit = %q, want %q", r.URL.Query().Get("string"), got, tt.want)
				}
			}
			if lookups != 2 {
				t.Errorf("lookups = %d, want 2", lookups)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name       string
		overrides  overrides
		method     string
		req        pipeline.Request
		wantErr    error
		wantStatus int
	}{
		{
			name:       "unknown method",
			method:     "scispacy",
			wantErr:    pipeline.ErrUnknownMethod,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unsupported linker property",
			method:     pipeline.MethodSAPBERT,
			req:        pipeline.Request{Props: annotation.Props{"autocomplete": true}},
			wantErr:    annotation.ErrConfiguration,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported normalizer property",
			method:     pipeline.MethodNameRes,
			req:        pipeline.Request{NormalizerProps: annotation.Props{"limit": 1}},
			wantErr:    annotation.ErrConfiguration,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative limit",
			method:     pipeline.MethodNameRes,
			req:        pipeline.Request{Limit: -1},
			wantErr:    pipeline.ErrInvalidLimit,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero limit property",
			method:     pipeline.MethodNameRes,
			req:        pipeline.Request{Props: annotation.Props{"limit": 0}},
			wantErr:    pipeline.ErrInvalidLimit,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric limit property",
			method:     pipeline.MethodSAPBERT,
			req:        pipeline.Request{Props: annotation.Props{"limit": "many"}},
			wantErr:    pipeline.ErrInvalidLimit,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "recognizer down",
			overrides:  overrides{"BioMegatron": servicetest.Failing("POST /annotate", http.StatusServiceUnavailable)},
			method:     pipeline.MethodNameRes,
			wantErr:    annotation.ErrService,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "linker down",
			overrides:  overrides{"NameRes": servicetest.Failing("GET /lookup", http.StatusInternalServerError)},
			method:     pipeline.MethodNameRes,
			wantErr:    annotation.ErrReannotateFailed,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, tt.overrides)

			result, err := f.system.Run(context.Background(), tt.method, servicetest.BrainText, tt.req)
			if result != nil {
				t.Error("expected no result")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := pipeline.MapHTTPStatus(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestRunNormalizerFailureIsAbsorbed(t *testing.T) {
	f := newFixture(t, nil, overrides{
		"NodeNorm": servicetest.Failing("POST /get_normalized_nodes", http.StatusBadGateway),
	})

	result, err := f.system.Run(context.Background(), pipeline.MethodNameRes, servicetest.BrainText, pipeline.Request{Limit: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, e := range result.Result.Annotations {
		if _, ok := e.(*annotation.NormalizedAnnotation); ok {
			t.Errorf("annotation %d should not be normalized", i)
		}
	}

	expected := `
# HELP renci_ner_pipeline_absorbed_failures_total Stage failures logged and skipped instead of failing the run.
# TYPE renci_ner_pipeline_absorbed_failures_total counter
renci_ner_pipeline_absorbed_failures_total{service="NodeNorm"} 1
`
	if err := testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "renci_ner_pipeline_absorbed_failures_total"); err != nil {
		t.Error(err)
	}
}

func TestRunBlankText(t *testing.T) {
	f := newFixture(t, nil, nil)

	result, err := f.system.Run(context.Background(), pipeline.MethodSAPBERT, "  \n ", pipeline.Request{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Result.Len() != 0 {
		t.Errorf("annotations = %d, want 0", result.Result.Len())
	}
	if n := len(f.servers["BioMegatron"].Requests()); n != 0 {
		t.Errorf("recognizer called %d times", n)
	}
}

func TestLinkerCache(t *testing.T) {
	f := newFixture(t, &pipeline.Config{CacheSize: 8}, nil)

	for range 2 {
		if _, err := f.system.Run(context.Background(), pipeline.MethodNameRes, servicetest.BrainText, pipeline.Request{Limit: 1}); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	if n := len(f.servers["NameRes"].Requests()); n != 2 {
		t.Errorf("lookups = %d, want 2 (one per span)", n)
	}
	if n := len(f.servers["BioMegatron"].Requests()); n != 2 {
		t.Errorf("recognizer calls = %d, want 2", n)
	}
}

func TestMethodsAndServices(t *testing.T) {
	f := newFixture(t, nil, nil)

	methods := f.system.Methods()
	if len(methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(methods))
	}
	for _, m := range methods {
		if m.Default != (m.Name == pipeline.MethodSAPBERT) {
			t.Errorf("%s default = %v", m.Name, m.Default)
		}
		if len(m.Stages) != 3 || m.Stages[0].Name != "BioMegatron" || m.Stages[2].Name != "NodeNorm" {
			t.Errorf("%s stages = %v", m.Name, m.Stages)
		}
		if m.Stages[0].Version != "1.0.0" {
			t.Errorf("%s version not resolved: %v", m.Name, m.Stages[0])
		}
	}

	services := f.system.Services()
	var roles []string
	for _, s := range services {
		roles = append(roles, s.Role+":"+s.Provenance.Name)
	}
	want := []string{"recognizer:BioMegatron", "linker:NameRes", "linker:SAPBERT", "normalizer:NodeNorm"}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("services (-want +got):\n%s", diff)
	}
}
