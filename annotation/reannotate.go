package annotation

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Reannotate runs annotator over the text of every annotation in t and
// returns a new AnnotatedText over the same text.
//
// An annotation for which annotator finds nothing is carried forward as the
// same value. Otherwise it is replaced by the annotator's results, in the
// order returned, each with annotator's provenance appended to a copy of the
// input's provenances and the input appended to a copy of its BasedOn.
// Groups keep the order of t.Annotations.
//
// Calls run concurrently up to the configured limit. Any failed call fails
// the whole operation and no partial result is returned; t is never modified.
func (t *AnnotatedText) Reannotate(ctx context.Context, annotator Annotator, props Props, opts ...Option) (*AnnotatedText, error) {
	o := newOptions(opts)
	prov := annotator.Provenance()

	groups := make([][]Entity, len(t.Annotations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers(len(t.Annotations)))

	for i, e := range t.Annotations {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			group, err := reannotateOne(gctx, annotator, prov, e, props)
			if err != nil {
				return fmt.Errorf("annotation %d (%q): %w", i, e.Base().Text, err)
			}

			groups[i] = group
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReannotateFailed, prov.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReannotateFailed, prov.Name, err)
	}

	out := New(t.Text, slices.Concat(groups...)...)

	o.logger.DebugContext(
		ctx, "reannotate complete",
		"annotator", prov.Name,
		"input", len(t.Annotations),
		"output", len(out.Annotations),
	)

	return out, nil
}

func reannotateOne(ctx context.Context, annotator Annotator, prov Provenance, e Entity, props Props) ([]Entity, error) {
	base := e.Base()

	result, err := annotator.Annotate(ctx, base.Text, props)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Annotations) == 0 {
		return []Entity{e}, nil
	}

	provenances := append(slices.Clone(base.Provenances), prov)
	basedOn := append(slices.Clone(base.BasedOn), e)

	group := make([]Entity, len(result.Annotations))
	for j, r := range result.Annotations {
		group[j] = r.derive(slices.Clone(provenances), slices.Clone(basedOn))
	}

	return group, nil
}
