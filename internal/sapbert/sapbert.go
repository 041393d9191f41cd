// Package sapbert links text to Babel cliques by SAPBERT embedding
// similarity.
package sapbert

import (
	"context"
	"unicode/utf8"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

const (
	Name         = "SAPBERT"
	DefaultURL   = "https://sap-qdrant.apps.renci.org"
	DefaultLimit = 10
	modelName    = "sapbert"
)

var supported = map[string]string{
	"limit": "The maximum number of results to return.",
	"score": "The (minimum) score for this result returned by SAPBERT (higher is better).",
}

type annotateRequest struct {
	Text      string `json:"text"`
	ModelName string `json:"model_name"`
	Count     int    `json:"count"`
}

type match struct {
	Curie    string  `json:"curie"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Annotator is a whole-text entity linker.
type Annotator struct {
	client *service.Client
}

// New creates an Annotator that calls the service behind client.
func New(client *service.Client) *Annotator {
	return &Annotator{client: client}
}

// Annotate returns the closest cliques to text, dropping any scored below
// the "score" property.
func (a *Annotator) Annotate(ctx context.Context, text string, props annotation.Props) (*annotation.AnnotatedText, error) {
	minScore := props.Float("score", 0)
	req := annotateRequest{
		Text:      text,
		ModelName: modelName,
		Count:     props.Int("limit", DefaultLimit),
	}

	var matches []match
	if err := a.client.Post(ctx, "/annotate/", req, &matches); err != nil {
		return nil, err
	}

	prov := a.client.Provenance()
	anns := make([]annotation.Entity, 0, len(matches))

	for _, m := range matches {
		if m.Score < minScore {
			continue
		}
		anns = append(anns, &annotation.Annotation{
			Text:        text,
			ID:          m.Curie,
			Label:       m.Name,
			Type:        m.Category,
			Start:       0,
			End:         utf8.RuneCountInString(text),
			Provenances: []annotation.Provenance{prov},
			BasedOn:     []annotation.Entity{},
			Props:       annotation.Props{"score": m.Score},
		})
	}

	return annotation.New(text, anns...), nil
}

func (a *Annotator) SupportedProperties() map[string]string {
	return supported
}

func (a *Annotator) Provenance() annotation.Provenance {
	return a.client.Provenance()
}
