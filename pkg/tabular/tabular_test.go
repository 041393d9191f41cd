package tabular_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/renci-ner/pkg/tabular"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    tabular.Format
		wantErr bool
	}{
		{"input.csv", tabular.CSV, false},
		{"INPUT.TSV", tabular.TSV, false},
		{"dir/data.tsv", tabular.TSV, false},
		{"data.xlsx", "", true},
		{"data", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := tabular.FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, tabular.ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFromPath = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		format tabular.Format
		input  string
	}{
		{"csv", tabular.CSV, "id,description\n1,\"brain, adult\"\n2,nervous system\n"},
		{"tsv", tabular.TSV, "id\tdescription\n1\tbrain, adult\n2\tnervous system\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := tabular.Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := cmp.Diff([]string{"id", "description"}, table.Header); diff != "" {
				t.Errorf("header (-want +got):\n%s", diff)
			}
			if len(table.Rows) != 2 {
				t.Fatalf("rows = %d, want 2", len(table.Rows))
			}
			if got := table.Rows[0].Get("description"); got != "brain, adult" {
				t.Errorf("description = %q", got)
			}
			if got := table.Rows[1].Get("missing"); got != "" {
				t.Errorf("missing column = %q", got)
			}
			if !table.HasColumn("id") || table.HasColumn("name") {
				t.Error("HasColumn mismatch")
			}
		})
	}
}

func TestReadShortRows(t *testing.T) {
	table, err := tabular.Read(strings.NewReader("a,b,c\n1\n"), tabular.CSV)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "", ""}, table.Rows[0].Values()); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := tabular.Read(strings.NewReader(""), tabular.CSV); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.tsv")
	if err := os.WriteFile(path, []byte("term\nbrain\n"), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := tabular.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if table.Rows[0].Get("term") != "brain" {
		t.Errorf("unexpected row %v", table.Rows[0].Values())
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := tabular.NewWriter(&buf, tabular.TSV)
	w.Write([]string{"ner_text", "ner_curie"})
	w.Write([]string{"brain", "UBERON:0000955"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "ner_text\tner_curie\nbrain\tUBERON:0000955\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
