// Package nodenorm normalizes identifiers through the Translator Node
// Normalizer.
package nodenorm

import (
	"context"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

const (
	Name       = "NodeNorm"
	DefaultURL = "https://nodenormalization-sri.renci.org"
)

var supported = map[string]string{
	"geneprotein_conflation":  "(true/false, default: true) Whether to conflate gene and protein identifiers.",
	"drugchemical_conflation": "(true/false, default: false) Whether to conflate drug and chemical identifiers.",
	"description":             "(true/false, default: false) Whether to include descriptions in the response.",
}

type normalizeRequest struct {
	Curies               []string `json:"curies"`
	Conflate             bool     `json:"conflate"`
	DrugChemicalConflate bool     `json:"drug_chemical_conflate"`
	Description          bool     `json:"description"`
}

type node struct {
	ID *struct {
		Identifier  string `json:"identifier"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"id"`
	Type               []string `json:"type"`
	InformationContent *float64 `json:"information_content"`
}

// Normalizer resolves identifiers to their preferred clique identifier.
type Normalizer struct {
	client *service.Client
}

// New creates a Normalizer that calls the service behind client.
func New(client *service.Client) *Normalizer {
	return &Normalizer{client: client}
}

// Lookup normalizes ids in one request. Identifiers the service does not
// know are absent from the result.
func (n *Normalizer) Lookup(ctx context.Context, ids []string, props annotation.Props) (map[string]*annotation.NormalizationResult, error) {
	req := normalizeRequest{
		Curies:               ids,
		Conflate:             props.Bool("geneprotein_conflation", true),
		DrugChemicalConflate: props.Bool("drugchemical_conflation", false),
		Description:          props.Bool("description", false),
	}

	var nodes map[string]*node
	if err := n.client.Post(ctx, "/get_normalized_nodes", req, &nodes); err != nil {
		return nil, err
	}

	prov := n.client.Provenance()
	out := make(map[string]*annotation.NormalizationResult, len(nodes))

	for curie, nd := range nodes {
		if nd == nil || nd.ID == nil {
			continue
		}
		out[curie] = &annotation.NormalizationResult{
			Identifier:         nd.ID.Identifier,
			Label:              nd.ID.Label,
			Description:        nd.ID.Description,
			Types:              nd.Type,
			InformationContent: nd.InformationContent,
			Provenance:         prov,
		}
	}

	return out, nil
}

func (n *Normalizer) SupportedProperties() map[string]string {
	return supported
}

func (n *Normalizer) Provenance() annotation.Provenance {
	return n.client.Provenance()
}
