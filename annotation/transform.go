package annotation

import (
	"context"
	"fmt"
	"slices"
)

// Transform enriches every annotation of t through one batch lookup on
// normalizer and returns a new AnnotatedText with the same number of
// annotations in the same order.
//
// An annotation whose ID has no usable result is carried forward unchanged.
// Otherwise it becomes a NormalizedAnnotation with the result's identifier as
// curie, the first reported type as biolink type (DefaultBiolinkType when
// none), the result's label when present, the normalizer's provenance
// appended and the input appended to BasedOn. The full type list, the
// information content and, when the "description" property is set, the
// description are merged into a copy of the input props.
//
// Normalization is best-effort: when the batch lookup fails, the failure is
// logged and passed to the WithFailureHandler callback and t is returned
// unchanged. Only context cancellation is returned as an error.
func (t *AnnotatedText) Transform(ctx context.Context, normalizer Normalizer, props Props, opts ...Option) (*AnnotatedText, error) {
	o := newOptions(opts)
	prov := normalizer.Provenance()

	if len(t.Annotations) == 0 {
		return t, nil
	}

	ids := t.IDs()
	results, err := normalizer.Lookup(ctx, ids, props)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("transform %s: %w", prov.Name, ctxErr)
		}

		o.logger.WarnContext(
			ctx, "normalization failed, skipping",
			"normalizer", prov.Name,
			"ids", ids,
			"error", err,
		)
		if o.onFailure != nil {
			o.onFailure(prov, err)
		}
		return t, nil
	}

	includeDescription := props.Bool("description", false)

	out := make([]Entity, len(t.Annotations))
	for i, e := range t.Annotations {
		out[i] = normalizeOne(ctx, o, prov, e, results[e.Base().ID], includeDescription)
	}

	return New(t.Text, out...), nil
}

func normalizeOne(
	ctx context.Context,
	o *options,
	prov Provenance,
	e Entity,
	result *NormalizationResult,
	includeDescription bool,
) Entity {
	if result == nil || result.Identifier == "" {
		return e
	}

	types := result.Types
	if len(types) == 0 {
		types = []string{DefaultBiolinkType}
	}

	base := e.Base()
	normalized, err := NewNormalizedAnnotation(*base, result.Identifier, types[0], result.Label)
	if err != nil {
		o.logger.WarnContext(
			ctx, "normalizer returned invalid biolink type, skipping",
			"normalizer", prov.Name,
			"id", base.ID,
			"error", err,
		)
		return e
	}

	if result.Provenance != (Provenance{}) {
		prov = result.Provenance
	}
	normalized.Provenances = append(normalized.Provenances, prov)
	normalized.BasedOn = append(normalized.BasedOn, e)

	normalized.Props["types"] = slices.Clone(types)
	if result.InformationContent != nil {
		normalized.Props["ic"] = *result.InformationContent
	} else {
		normalized.Props["ic"] = nil
	}
	if includeDescription {
		normalized.Props["description"] = result.Description
	}

	return normalized
}
