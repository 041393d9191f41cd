// Package pipeline chains the remote annotation services into the named
// annotation methods.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/renci-ner/annotation"
)

// Annotation methods.
const (
	MethodSAPBERT = "biomegatron-sapbert"
	MethodNameRes = "biomegatron-nameres"
)

// Methods lists every supported method name.
var Methods = []string{MethodSAPBERT, MethodNameRes}

// IsMethod reports whether name is a supported method.
func IsMethod(name string) bool {
	return slices.Contains(Methods, name)
}

// Pipeline recognizes spans, links each one, then normalizes the links.
type Pipeline struct {
	Name       string
	Recognizer annotation.Annotator
	Linker     annotation.Annotator
	Normalizer annotation.Normalizer

	concurrency int
	timeout     time.Duration
	limit       int
	onFailure   func(annotation.Provenance, error)
	logger      *slog.Logger
}

// Request carries per-run parameters.
type Request struct {
	// Limit caps linker results per span. Zero falls back to a "limit"
	// linker property, then to the configured default.
	Limit int `json:"limit,omitempty"`
	// Props are passed to the linker.
	Props annotation.Props `json:"props,omitempty"`
	// NormalizerProps are passed to the normalizer.
	NormalizerProps annotation.Props `json:"normalizer_props,omitempty"`
}

// Result is the output of one run.
type Result struct {
	RunID  uuid.UUID                 `json:"run_id"`
	Method string                    `json:"method"`
	Result *annotation.AnnotatedText `json:"result"`
}

// Stages returns the provenance of each stage in execution order.
func (p *Pipeline) Stages() []annotation.Provenance {
	return []annotation.Provenance{
		p.Recognizer.Provenance(),
		p.Linker.Provenance(),
		p.Normalizer.Provenance(),
	}
}

// Validate cross-checks request properties against the stages that receive them.
func (p *Pipeline) Validate(req Request) error {
	if req.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, req.Limit)
	}
	if v, ok := req.Props["limit"]; ok && req.Props.Int("limit", 0) < 1 {
		return fmt.Errorf("%w: linker property %v", ErrInvalidLimit, v)
	}
	linker := p.Linker.Provenance().Name
	if err := annotation.ValidateProps(linker, p.Linker.SupportedProperties(), req.Props); err != nil {
		return err
	}
	normalizer := p.Normalizer.Provenance().Name
	return annotation.ValidateProps(normalizer, p.Normalizer.SupportedProperties(), req.NormalizerProps)
}

// Run annotates text. Blank text yields an empty result without calling
// any service.
func (p *Pipeline) Run(ctx context.Context, text string, req Request) (*Result, error) {
	if err := p.Validate(req); err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger := p.logger.With("run_id", runID, "method", p.Name)
	result := &Result{RunID: runID, Method: p.Name}

	if strings.TrimSpace(text) == "" {
		result.Result = annotation.New(text)
		return result, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	limit := p.resolveLimit(req)

	opts := []annotation.Option{
		annotation.WithConcurrency(p.concurrency),
		annotation.WithLogger(logger),
		annotation.WithFailureHandler(p.onFailure),
	}

	start := time.Now()

	recognized, err := p.Recognizer.Annotate(ctx, text, nil)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	logger.InfoContext(ctx, "spans recognized", "count", recognized.Len())

	linked, err := recognized.Reannotate(ctx, p.Linker, req.Props.With("limit", limit), opts...)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}
	logger.InfoContext(ctx, "spans linked", "count", linked.Len())

	normalized, err := linked.Transform(ctx, p.Normalizer, req.NormalizerProps, opts...)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	logger.InfoContext(
		ctx, "run complete",
		"annotations", normalized.Len(),
		"duration", time.Since(start),
	)

	result.Result = normalized
	return result, nil
}

func (p *Pipeline) resolveLimit(req Request) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return req.Props.Int("limit", p.limit)
}
