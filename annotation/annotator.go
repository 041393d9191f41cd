package annotation

import "context"

// Annotator is the capability every recognition and linking service
// implements.
//
// Annotate returns a fresh AnnotatedText over text and must not modify its
// inputs. A service failure is returned as a *ServiceError; "no matches" is
// an empty annotation list, not an error.
//
// SupportedProperties describes the option keys Annotate understands. It is
// descriptive only; callers use it with ValidateProps at their boundary.
//
// Provenance must be stable for a configured instance so repeated runs are
// reproducible.
type Annotator interface {
	Annotate(ctx context.Context, text string, props Props) (*AnnotatedText, error)
	SupportedProperties() map[string]string
	Provenance() Provenance
}

// NormalizationResult is the canonical form a Normalizer reports for one
// identifier.
type NormalizationResult struct {
	Identifier         string
	Label              string
	Description        string
	Types              []string
	InformationContent *float64
	Provenance         Provenance
}

// Normalizer is a batch lookup capability mapping identifiers to canonical
// identifiers and semantic types. Identifiers without a result are either
// absent from the returned map or map to nil.
type Normalizer interface {
	Lookup(ctx context.Context, ids []string, props Props) (map[string]*NormalizationResult, error)
	SupportedProperties() map[string]string
	Provenance() Provenance
}
