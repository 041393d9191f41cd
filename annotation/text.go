package annotation

import "slices"

// AnnotatedText is one stage's complete output over one input text.
// Annotations keep producer order; every transformation preserves it.
type AnnotatedText struct {
	Text        string   `json:"text"`
	Annotations []Entity `json:"annotations"`
}

// New returns an AnnotatedText over text with the given annotations.
func New(text string, annotations ...Entity) *AnnotatedText {
	if annotations == nil {
		annotations = []Entity{}
	}
	return &AnnotatedText{Text: text, Annotations: annotations}
}

// Len returns the number of annotations.
func (t *AnnotatedText) Len() int {
	return len(t.Annotations)
}

// IDs returns the ID of every annotation in order, duplicates included.
func (t *AnnotatedText) IDs() []string {
	ids := make([]string, len(t.Annotations))
	for i, e := range t.Annotations {
		ids[i] = e.Base().ID
	}
	return ids
}

// Clone returns a copy whose annotations can be handed to another caller
// without sharing provenance slices or props. BasedOn entries still point at
// the same immutable predecessors.
func (t *AnnotatedText) Clone() *AnnotatedText {
	out := &AnnotatedText{
		Text:        t.Text,
		Annotations: make([]Entity, len(t.Annotations)),
	}
	for i, e := range t.Annotations {
		base := e.Base()
		out.Annotations[i] = e.derive(slices.Clone(base.Provenances), slices.Clone(base.BasedOn))
	}
	return out
}
