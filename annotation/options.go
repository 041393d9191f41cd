package annotation

import (
	"log/slog"
	"runtime"
)

// Option configures a Reannotate or Transform call.
type Option func(*options)

type options struct {
	concurrency int
	logger      *slog.Logger
	onFailure   func(Provenance, error)
}

// WithConcurrency bounds the number of in-flight annotator calls.
// Values below one select the default, min(NumCPU, annotation count).
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger that receives stage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFailureHandler registers fn to observe failures that a stage absorbs
// instead of returning, such as a failed normalization batch.
func WithFailureHandler(fn func(Provenance, error)) Option {
	return func(o *options) {
		o.onFailure = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) workers(n int) int {
	if o.concurrency > 0 {
		return max(min(o.concurrency, n), 1)
	}
	return max(min(runtime.NumCPU(), n), 1)
}
