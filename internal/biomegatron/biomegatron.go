// Package biomegatron recognizes biomedical concept spans in plain text
// through a BioMegatron token-classification service.
package biomegatron

import (
	"context"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

const (
	Name       = "BioMegatron"
	DefaultURL = "https://med-nemo.apps.renci.org"
	modelName  = "token_classification"
)

type annotateRequest struct {
	Text      string `json:"text"`
	ModelName string `json:"model_name"`
}

type annotateResponse struct {
	Denotations []denotation `json:"denotations"`
}

type denotation struct {
	ID   string `json:"id"`
	Obj  string `json:"obj"`
	Text string `json:"text"`
	Span *struct {
		Begin int `json:"begin"`
		End   int `json:"end"`
	} `json:"span"`
}

// Annotator is a span recognizer. It supports no properties.
type Annotator struct {
	client *service.Client
}

// New creates an Annotator that calls the service behind client.
func New(client *service.Client) *Annotator {
	return &Annotator{client: client}
}

// Annotate returns one annotation per recognized span, in service order.
func (a *Annotator) Annotate(ctx context.Context, text string, props annotation.Props) (*annotation.AnnotatedText, error) {
	var resp annotateResponse
	req := annotateRequest{Text: text, ModelName: modelName}

	if err := a.client.Post(ctx, "/annotate", req, &resp); err != nil {
		return nil, err
	}

	prov := a.client.Provenance()
	anns := make([]annotation.Entity, 0, len(resp.Denotations))

	for _, d := range resp.Denotations {
		start, end := -1, -1
		if d.Span != nil {
			start, end = d.Span.Begin, d.Span.End
		}

		ann := &annotation.Annotation{
			Text:        d.Text,
			ID:          d.ID,
			Type:        d.Obj,
			Start:       start,
			End:         end,
			Provenances: []annotation.Provenance{prov},
			BasedOn:     []annotation.Entity{},
			Props:       annotation.Props{},
		}
		if err := ann.Validate(); err != nil {
			return nil, &annotation.ServiceError{Service: Name, Detail: "invalid denotation", Err: err}
		}
		anns = append(anns, ann)
	}

	return annotation.New(text, anns...), nil
}

// SupportedProperties returns an empty set.
func (a *Annotator) SupportedProperties() map[string]string {
	return map[string]string{}
}

func (a *Annotator) Provenance() annotation.Provenance {
	return a.client.Provenance()
}
