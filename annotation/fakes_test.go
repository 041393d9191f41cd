package annotation_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/renci-ner/annotation"
)

type fakeAnnotator struct {
	prov    annotation.Provenance
	results map[string][]annotation.Entity
	errs    map[string]error
	delay   func(text string) time.Duration
	calls   atomic.Int32
}

func (f *fakeAnnotator) Annotate(ctx context.Context, text string, props annotation.Props) (*annotation.AnnotatedText, error) {
	f.calls.Add(1)

	if f.delay != nil {
		select {
		case <-time.After(f.delay(text)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := f.errs[text]; ok {
		return nil, err
	}

	limit := props.Int("limit", 0)
	var out []annotation.Entity
	for i, e := range f.results[text] {
		if limit > 0 && i >= limit {
			break
		}
		base := *e.Base()
		out = append(out, &base)
	}

	return annotation.New(text, out...), nil
}

func (f *fakeAnnotator) SupportedProperties() map[string]string {
	return map[string]string{"limit": "maximum results"}
}

func (f *fakeAnnotator) Provenance() annotation.Provenance {
	return f.prov
}

type fakeNormalizer struct {
	prov    annotation.Provenance
	results map[string]*annotation.NormalizationResult
	err     error
	lookups [][]string
}

func (f *fakeNormalizer) Lookup(ctx context.Context, ids []string, props annotation.Props) (map[string]*annotation.NormalizationResult, error) {
	f.lookups = append(f.lookups, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeNormalizer) SupportedProperties() map[string]string {
	return map[string]string{"description": "include descriptions"}
}

func (f *fakeNormalizer) Provenance() annotation.Provenance {
	return f.prov
}

var (
	recognizerProv = annotation.Provenance{Name: "BioMegatron", URL: "https://med-nemo.example", Version: "0.1.0"}
	linkerProv     = annotation.Provenance{Name: "NameRes", URL: "https://nameres.example", Version: "1.4.7"}
	normalizerProv = annotation.Provenance{Name: "NodeNorm", URL: "https://nodenorm.example", Version: "2.3.0"}
)

func recognized(text string, start, end int) *annotation.Annotation {
	return &annotation.Annotation{
		Text:        text,
		ID:          "I2-",
		Type:        "biolink:AnatomicalEntity",
		Start:       start,
		End:         end,
		Provenances: []annotation.Provenance{recognizerProv},
		BasedOn:     []annotation.Entity{},
		Props:       annotation.Props{},
	}
}

func linked(text, id, label string) *annotation.Annotation {
	return &annotation.Annotation{
		Text:  text,
		ID:    id,
		Label: label,
		Type:  "biolink:GrossAnatomicalStructure",
		Start: 0,
		End:   len(text),
		Props: annotation.Props{"score": 16.2, "synonyms": []string{label}},
	}
}
