// Package nameres links text to Babel cliques through the Name Resolution
// lookup service. Every result covers the whole input text.
package nameres

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

const (
	Name         = "NameRes"
	DefaultURL   = "https://name-resolution-sri.renci.org"
	DefaultLimit = 10
)

var supported = map[string]string{
	"autocomplete":     "(true/false, default: false) Whether to search for incomplete words (e.g. 'bra' for brain).",
	"limit":            "(int, default: 10) The number of results to return.",
	"highlighting":     "(true/false, default: false) Whether to return highlighted matches.",
	"biolink_types":    "(list) Only return concepts with one of these biolink types.",
	"only_prefixes":    "(list) Only return concepts whose identifier has one of these prefixes.",
	"exclude_prefixes": "(list) Exclude concepts whose identifier has one of these prefixes.",
	"only_taxa":        "(list) Only return concepts from these NCBITaxon taxa.",
}

type lookupResult struct {
	Curie                 string         `json:"curie"`
	Label                 string         `json:"label"`
	Types                 []string       `json:"types"`
	Score                 float64        `json:"score"`
	CliqueIdentifierCount int            `json:"clique_identifier_count"`
	Synonyms              []string       `json:"synonyms"`
	Highlighting          map[string]any `json:"highlighting"`
	Taxa                  []string       `json:"taxa"`
}

// Annotator is a whole-text entity linker.
type Annotator struct {
	client *service.Client
}

// New creates an Annotator that calls the service behind client.
func New(client *service.Client) *Annotator {
	return &Annotator{client: client}
}

// Annotate looks text up and returns the ranked matches.
func (a *Annotator) Annotate(ctx context.Context, text string, props annotation.Props) (*annotation.AnnotatedText, error) {
	var results []lookupResult
	if err := a.client.Get(ctx, "/lookup", query(text, props), &results); err != nil {
		return nil, err
	}

	prov := a.client.Provenance()
	anns := make([]annotation.Entity, 0, len(results))

	for _, r := range results {
		typ := annotation.DefaultBiolinkType
		if len(r.Types) > 0 {
			typ = r.Types[0]
		}

		anns = append(anns, &annotation.Annotation{
			Text:        text,
			ID:          r.Curie,
			Label:       r.Label,
			Type:        typ,
			Start:       0,
			End:         utf8.RuneCountInString(text),
			Provenances: []annotation.Provenance{prov},
			BasedOn:     []annotation.Entity{},
			Props: annotation.Props{
				"score":                   r.Score,
				"clique_identifier_count": r.CliqueIdentifierCount,
				"synonyms":                orEmpty(r.Synonyms),
				"highlighting":            orEmptyMap(r.Highlighting),
				"types":                   orEmpty(r.Types),
				"taxa":                    orEmpty(r.Taxa),
			},
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

func query(text string, props annotation.Props) url.Values {
	q := url.Values{}
	q.Set("string", text)
	q.Set("autocomplete", strconv.FormatBool(props.Bool("autocomplete", false)))
	q.Set("limit", strconv.Itoa(props.Int("limit", DefaultLimit)))
	q.Set("highlighting", strconv.FormatBool(props.Bool("highlighting", false)))
	q.Set("biolink_type", strings.Join(props.Strings("biolink_types"), "|"))
	q.Set("only_prefixes", strings.Join(props.Strings("only_prefixes"), "|"))
	q.Set("exclude_prefixes", strings.Join(props.Strings("exclude_prefixes"), "|"))
	q.Set("only_taxa", strings.Join(props.Strings("only_taxa"), "|"))
	return q
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
