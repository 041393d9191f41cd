// Package servicetest replays recorded payloads of the remote annotation
// services from httptest servers.
package servicetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/JaimeStill/renci-ner/pkg/service"
)

// BrainText is the sentence the recorded payloads describe.
const BrainText = "The brain is a significant part of the nervous system."

// SjogrenText is a mention whose byte length exceeds its character length.
const SjogrenText = "Sjögren syndrome"

// Server is a fake service that records the requests it receives.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   []map[string]any
}

// NewServer starts a fake service that answers /openapi.json with version
// and dispatches every other path through routes. It is closed with t.
func NewServer(t *testing.T, version string, routes map[string]http.HandlerFunc) *Server {
	t.Helper()

	s := &Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, map[string]any{"info": map[string]string{"version": version}})
	})
	for pattern, h := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			s.record(r)
			h(w, r)
		})
	}

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Client returns a service client for the fake under name.
func (s *Server) Client(name string, opts ...service.Option) *service.Client {
	return service.New(name, &service.Config{BaseURL: s.URL, Timeout: "5s"}, opts...)
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Bodies returns the decoded JSON bodies of recorded requests.
func (s *Server) Bodies() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.bodies...)
}

func (s *Server) record(r *http.Request) {
	var body map[string]any
	if r.Body != nil && r.Method == http.MethodPost {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
		json.Unmarshal(data, &body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Clone(r.Context()))
	s.bodies = append(s.bodies, body)
}

// JSON writes v as a 200 JSON response.
func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// BioMegatron answers POST /annotate with the two anatomical spans of BrainText.
func BioMegatron() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"POST /annotate": func(w http.ResponseWriter, r *http.Request) {
			JSON(w, map[string]any{
				"text": BrainText,
				"denotations": []map[string]any{
					{"id": "I2-", "obj": "biolink:AnatomicalEntity", "text": "brain", "span": map[string]int{"begin": 4, "end": 9}},
					{"id": "I2-", "obj": "biolink:AnatomicalEntity", "text": "nervous system", "span": map[string]int{"begin": 39, "end": 53}},
				},
			})
		},
	}
}

var nameResFixtures = map[string][]map[string]any{
	"brain": {
		{"curie": "UBERON:0000955", "label": "brain", "types": []string{"biolink:GrossAnatomicalStructure", "biolink:AnatomicalEntity"}, "score": 16.2, "clique_identifier_count": 12, "synonyms": []string{"brain", "encephalon"}, "taxa": []string{}},
		{"curie": "UBERON:6110636", "label": "adult cerebral ganglion", "types": []string{"biolink:GrossAnatomicalStructure"}, "score": 9.7, "synonyms": []string{"brain"}},
		{"curie": "NCIT:C12439", "label": "Brain", "types": []string{}, "score": 8.1},
	},
	SjogrenText: {
		{"curie": "MONDO:0010030", "label": "Sjogren syndrome", "types": []string{"biolink:Disease"}, "score": 30.4},
	},
	"nervous system": {
		{"curie": "UBERON:0001016", "label": "nervous system", "types": []string{"biolink:GrossAnatomicalStructure"}, "score": 21.5, "synonyms": []string{"nervous system"}},
		{"curie": "MESH:D009420", "label": "Nervous System", "types": []string{"biolink:AnatomicalEntity"}, "score": 12.0},
	},
}

// NameRes answers GET /lookup from fixed results, honoring the limit parameter.
func NameRes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /lookup": func(w http.ResponseWriter, r *http.Request) {
			results := nameResFixtures[r.URL.Query().Get("string")]
			if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n < len(results) {
				results = results[:n]
			}
			if results == nil {
				results = []map[string]any{}
			}
			JSON(w, results)
		},
	}
}

var sapbertFixtures = map[string][]map[string]any{
	"brain": {
		{"curie": "UBERON:0000955", "name": "brain", "category": "biolink:GrossAnatomicalStructure", "score": 0.98},
		{"curie": "UBERON:6110636", "name": "adult cerebral ganglion", "category": "biolink:GrossAnatomicalStructure", "score": 0.71},
	},
	SjogrenText: {
		{"curie": "MONDO:0010030", "name": "Sjogren syndrome", "category": "biolink:Disease", "score": 0.97},
	},
	"nervous system": {
		{"curie": "UBERON:0001016", "name": "nervous system", "category": "biolink:GrossAnatomicalStructure", "score": 0.99},
	},
}

// SAPBERT answers POST /annotate/ from fixed results, honoring count.
func SAPBERT() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"POST /annotate/": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Text  string `json:"text"`
				Count int    `json:"count"`
			}
			json.NewDecoder(r.Body).Decode(&req)

			results := sapbertFixtures[req.Text]
			if req.Count > 0 && req.Count < len(results) {
				results = results[:req.Count]
			}
			if results == nil {
				results = []map[string]any{}
			}
			JSON(w, results)
		},
	}
}

var nodeNormFixtures = map[string]any{
	"UBERON:0000955": map[string]any{
		"id":                  map[string]string{"identifier": "UBERON:0000955", "label": "brain", "description": "organ of the central nervous system"},
		"type":                []string{"biolink:GrossAnatomicalStructure", "biolink:AnatomicalEntity"},
		"information_content": 74.5,
	},
	"UBERON:0001016": map[string]any{
		"id":                  map[string]string{"identifier": "UBERON:0001016", "label": "nervous system"},
		"type":                []string{"biolink:AnatomicalEntity"},
		"information_content": 80.1,
	},
	"NCBIGene:71": map[string]any{
		"id":                  map[string]string{"identifier": "NCBIGene:71", "label": "ACTG1"},
		"type":                []string{"biolink:Gene", "biolink:GeneOrGeneProduct"},
		"information_content": 100.0,
	},
}

// NodeNorm answers POST /get_normalized_nodes from fixed results; unknown
// curies map to null.
func NodeNorm() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"POST /get_normalized_nodes": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Curies []string `json:"curies"`
			}
			json.NewDecoder(r.Body).Decode(&req)

			out := make(map[string]any, len(req.Curies))
			for _, c := range req.Curies {
				out[c] = nodeNormFixtures[c]
			}
			JSON(w, out)
		},
	}
}

// Failing returns a route that always answers with status.
func Failing(pattern string, status int) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		pattern: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(status), status)
		},
	}
}
