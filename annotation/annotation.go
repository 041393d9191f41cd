// Package annotation defines the biomedical annotation data model and the
// composition algorithms that chain annotation services into pipelines.
// A recognizer produces an initial AnnotatedText; later stages either
// reannotate every annotation through another Annotator (fan-out) or
// transform the whole set through a batch Normalizer (1:1 enrichment).
// Every derived annotation records the services that produced it in
// Provenances and the annotations it was derived from in BasedOn.
package annotation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// BiolinkPrefix is the required prefix of every non-empty biolink type.
const BiolinkPrefix = "biolink:"

// DefaultBiolinkType is used when a normalizer reports no semantic types.
const DefaultBiolinkType = "biolink:NamedThing"

// Provenance identifies the service, and service version, that produced an
// annotation. It does not capture per-call parameters.
type Provenance struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Version string `json:"version"`
}

func (p Provenance) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.URL)
}

// Entity is implemented by *Annotation and *NormalizedAnnotation.
// Entities returned by a stage are immutable: later stages derive new
// values instead of modifying them.
type Entity interface {
	// Base returns the plain annotation fields. The result must not be modified.
	Base() *Annotation

	derive(provenances []Provenance, basedOn []Entity) Entity
}

// Annotation is a single labeled span, or whole-text match, over the text a
// stage was given. Start and End are half-open character (rune) offsets
// into that text.
type Annotation struct {
	Text        string       `json:"text"`
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Type        string       `json:"type"`
	Start       int          `json:"start"`
	End         int          `json:"end"`
	Provenances []Provenance `json:"provenances"`
	BasedOn     []Entity     `json:"based_on"`
	Props       Props        `json:"props"`
}

// Base returns a.
func (a *Annotation) Base() *Annotation {
	return a
}

// Validate checks the span invariant.
func (a *Annotation) Validate() error {
	if a.Start > a.End {
		return &ValidationError{
			Field: "span",
			Value: fmt.Sprintf("%d:%d", a.Start, a.End),
			Msg:   "start must not exceed end",
		}
	}
	return nil
}

func (a *Annotation) derive(provenances []Provenance, basedOn []Entity) Entity {
	out := *a
	out.Provenances = provenances
	out.BasedOn = basedOn
	out.Props = a.Props.Clone()
	return &out
}

// NormalizedAnnotation is an Annotation that additionally carries a canonical
// identifier and a validated biolink type. The biolink type can only be
// changed through SetBiolinkType, which re-validates the prefix invariant.
type NormalizedAnnotation struct {
	Annotation
	Curie string

	biolinkType string
}

// NewNormalizedAnnotation builds a NormalizedAnnotation from base by
// copy-and-extend: every field of base is carried over, curie and biolinkType
// are added, and the label is replaced only when label is non-empty.
// Provenances, BasedOn and Props are copied so the result never aliases base.
func NewNormalizedAnnotation(base Annotation, curie, biolinkType, label string) (*NormalizedAnnotation, error) {
	if err := validateBiolinkType(biolinkType); err != nil {
		return nil, err
	}

	base.Provenances = slices.Clone(base.Provenances)
	base.BasedOn = slices.Clone(base.BasedOn)
	base.Props = base.Props.Clone()
	if label != "" {
		base.Label = label
	}

	return &NormalizedAnnotation{
		Annotation:  base,
		Curie:       curie,
		biolinkType: biolinkType,
	}, nil
}

// BiolinkType returns the semantic type tag.
func (n *NormalizedAnnotation) BiolinkType() string {
	return n.biolinkType
}

// SetBiolinkType replaces the semantic type tag. A non-empty value lacking
// the biolink: prefix is rejected and the annotation is left unchanged.
func (n *NormalizedAnnotation) SetBiolinkType(biolinkType string) error {
	if err := validateBiolinkType(biolinkType); err != nil {
		return err
	}
	n.biolinkType = biolinkType
	return nil
}

// MarshalJSON flattens the embedded annotation and adds curie and biolink_type.
func (n *NormalizedAnnotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		*Annotation
		Curie       string `json:"curie"`
		BiolinkType string `json:"biolink_type"`
	}{
		Annotation:  &n.Annotation,
		Curie:       n.Curie,
		BiolinkType: n.biolinkType,
	})
}

func (n *NormalizedAnnotation) derive(provenances []Provenance, basedOn []Entity) Entity {
	out := *n
	out.Provenances = provenances
	out.BasedOn = basedOn
	out.Props = n.Props.Clone()
	return &out
}

func validateBiolinkType(t string) error {
	if t == "" {
		return nil
	}
	if len(t) < len(BiolinkPrefix) || !strings.EqualFold(t[:len(BiolinkPrefix)], BiolinkPrefix) {
		return &ValidationError{
			Field: "biolink_type",
			Value: t,
			Msg:   "must start with " + BiolinkPrefix,
		}
	}
	return nil
}

// Curie returns the canonical identifier of e: the curie of a normalized
// annotation, otherwise its ID.
func Curie(e Entity) string {
	if n, ok := e.(*NormalizedAnnotation); ok {
		return n.Curie
	}
	return e.Base().ID
}

// BiolinkType returns the semantic type of e: the validated biolink type of a
// normalized annotation, otherwise its Type.
func BiolinkType(e Entity) string {
	if n, ok := e.(*NormalizedAnnotation); ok {
		return n.biolinkType
	}
	return e.Base().Type
}

// Ancestors walks BasedOn depth-first, oldest predecessor first, and returns
// every annotation e was derived from. Shared ancestors are reported once.
func Ancestors(e Entity) []Entity {
	var out []Entity
	seen := make(map[Entity]bool)

	var walk func(Entity)
	walk = func(cur Entity) {
		for _, parent := range cur.Base().BasedOn {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			walk(parent)
			out = append(out, parent)
		}
	}
	walk(e)

	return out
}
