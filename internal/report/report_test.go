package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/internal/report"
	"github.com/JaimeStill/renci-ner/pkg/tabular"
)

func normalized(t *testing.T, text, id, label, biolinkType string) annotation.Entity {
	t.Helper()
	n, err := annotation.NewNormalizedAnnotation(annotation.Annotation{Text: text, ID: id}, id, biolinkType, label)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func brainResult(t *testing.T) *annotation.AnnotatedText {
	return annotation.New(
		"brain\nnervous system",
		normalized(t, "brain", "UBERON:0000955", "brain", "biolink:GrossAnatomicalStructure"),
		normalized(t, "brain", "UBERON:0000955", "brain", "biolink:GrossAnatomicalStructure"),
		&annotation.Annotation{Text: "nervous system", ID: "UBERON:0001016", Label: "nervous system", Type: "biolink:AnatomicalEntity"},
	)
}

func TestRecords(t *testing.T) {
	input := []string{"1", "brain"}

	tests := []struct {
		name string
		opts report.Options
		want [][]string
	}{
		{
			name: "defaults",
			want: [][]string{
				{"1", "brain", "brain", "brain", "UBERON:0000955", "biolink:GrossAnatomicalStructure"},
				{"", "", "nervous system", "nervous system", "UBERON:0001016", "biolink:AnatomicalEntity"},
			},
		},
		{
			name: "duplicate data",
			opts: report.Options{DuplicateData: true},
			want: [][]string{
				{"1", "brain", "brain", "brain", "UBERON:0000955", "biolink:GrossAnatomicalStructure"},
				{"1", "brain", "nervous system", "nervous system", "UBERON:0001016", "biolink:AnatomicalEntity"},
			},
		},
		{
			name: "allow duplicate ids",
			opts: report.Options{AllowDuplicateIDs: true},
			want: [][]string{
				{"1", "brain", "brain", "brain", "UBERON:0000955", "biolink:GrossAnatomicalStructure"},
				{"", "", "brain", "brain", "UBERON:0000955", "biolink:GrossAnatomicalStructure"},
				{"", "", "nervous system", "nervous system", "UBERON:0001016", "biolink:AnatomicalEntity"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.Records(input, 2, brainResult(t), tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordsWithoutAnnotations(t *testing.T) {
	got := report.Records([]string{"2"}, 2, annotation.New("nothing"), report.Options{})
	want := [][]string{{"2", "", "", "", "", ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(tabular.NewWriter(&buf, tabular.CSV), []string{"id", "text"}, report.Options{})

	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	n, err := w.WriteRow([]string{"1", "brain"}, brainResult(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("records written = %d, want 2", n)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "id,text,ner_text,ner_label,ner_curie,ner_biolink_type" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("lines = %d, want 3", len(lines))
	}
}
