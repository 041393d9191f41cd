package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/renci-ner/pkg/openapi"
	"github.com/JaimeStill/renci-ner/pkg/routes"
)

func handler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func groups() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/annotate",
			Tags:   []string{"Annotation"},
			Routes: []routes.Route{
				{
					Method:  "POST",
					Pattern: "",
					Handler: handler("annotate"),
					OpenAPI: &openapi.Operation{Summary: "Annotate text"},
				},
			},
			Children: []routes.Group{
				{
					Prefix: "/{method}",
					Routes: []routes.Route{
						{
							Method:  "POST",
							Pattern: "",
							Handler: handler("method"),
							OpenAPI: &openapi.Operation{Summary: "Annotate with method", Tags: []string{"Methods"}},
						},
					},
				},
			},
		},
		{
			Prefix: "/internal",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{key...}", Handler: handler("internal")},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, groups()...)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"POST", "/annotate", "annotate"},
		{"POST", "/annotate/biomegatron-sapbert", "method"},
		{"GET", "/internal/a/b", "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Body.String() != tt.want {
				t.Errorf("body: got %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec("test", "0.0.0")
	routes.Document(spec, "/api", groups()...)

	if len(spec.Paths) != 2 {
		t.Fatalf("paths: got %d, want 2", len(spec.Paths))
	}

	root := spec.Paths["/api/annotate"]
	if root == nil || root.Post == nil {
		t.Fatal("missing POST /api/annotate")
	}
	if len(root.Post.Tags) != 1 || root.Post.Tags[0] != "Annotation" {
		t.Errorf("inherited tags: got %v", root.Post.Tags)
	}

	child := spec.Paths["/api/annotate/{method}"]
	if child == nil || child.Post == nil {
		t.Fatal("missing POST /api/annotate/{method}")
	}
	if child.Post.Tags[0] != "Methods" {
		t.Errorf("explicit tags should win: got %v", child.Post.Tags)
	}
}
