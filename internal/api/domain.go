package api

import "github.com/JaimeStill/renci-ner/internal/pipeline"

// Domain holds the systems the API exposes.
type Domain struct {
	Pipelines pipeline.System
}

// NewDomain creates the domain from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Pipelines: runtime.Pipelines,
	}
}
