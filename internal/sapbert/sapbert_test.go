package sapbert_test

import (
	"context"
	"testing"

	"github.com/JaimeStill/renci-ner/annotation"
	"github.com/JaimeStill/renci-ner/internal/sapbert"
	"github.com/JaimeStill/renci-ner/internal/servicetest"
)

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name    string
		props   annotation.Props
		wantIDs []string
		count   float64
	}{
		{"defaults", nil, []string{"UBERON:0000955", "UBERON:6110636"}, 10},
		{"limit", annotation.Props{"limit": 1}, []string{"UBERON:0000955"}, 1},
		{"score threshold", annotation.Props{"score": 0.9}, []string{"UBERON:0000955"}, 10},
		{"threshold excludes all", annotation.Props{"score": "0.99"}, []string{}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := servicetest.NewServer(t, "1.0", servicetest.SAPBERT())

			result, err := sapbert.New(srv.Client(sapbert.Name)).Annotate(context.Background(), "brain", tt.props)
			if err != nil {
				t.Fatalf("Annotate: %v", err)
			}

			ids := result.IDs()
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("ids[%d] = %q, want %q", i, ids[i], tt.wantIDs[i])
				}
			}

			body := srv.Bodies()[0]
			if body["model_name"] != "sapbert" || body["count"] != tt.count {
				t.Errorf("unexpected request body %v", body)
			}
		})
	}
}

func TestAnnotateFields(t *testing.T) {
	srv := servicetest.NewServer(t, "1.0", servicetest.SAPBERT())

	result, err := sapbert.New(srv.Client(sapbert.Name)).Annotate(context.Background(), "nervous system", nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	a := result.Annotations[0].Base()
	if a.Label != "nervous system" || a.Type != "biolink:GrossAnatomicalStructure" {
		t.Errorf("unexpected annotation %+v", a)
	}
	if a.Start != 0 || a.End != len("nervous system") {
		t.Errorf("span = [%d,%d)", a.Start, a.End)
	}
	if a.Props.Float("score", 0) != 0.99 {
		t.Errorf("score = %v", a.Props["score"])
	}
	if a.Provenances[0].Name != sapbert.Name {
		t.Errorf("provenance = %v", a.Provenances[0])
	}
}

func TestAnnotateCharacterOffsets(t *testing.T) {
	srv := servicetest.NewServer(t, "1.0", servicetest.SAPBERT())

	result, err := sapbert.New(srv.Client(sapbert.Name)).Annotate(context.Background(), servicetest.SjogrenText, nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(result.Annotations) != 1 {
		t.Fatalf("annotations = %d, want 1", len(result.Annotations))
	}

	a := result.Annotations[0].Base()
	if a.End != 16 || a.End == len(servicetest.SjogrenText) {
		t.Errorf("End = %d, want 16 characters", a.End)
	}
}
