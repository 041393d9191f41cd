// Package routes groups handlers under shared prefixes and registers them
// with a ServeMux and an OpenAPI spec.
package routes

import (
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/renci-ner/pkg/openapi"
)

// Group organizes routes under a common prefix. Tags are applied to every
// documented operation in the group and its children.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from groups to mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(path string, _ []string, r Route) {
		mux.HandleFunc(r.Method+" "+path, r.Handler)
	})
}

// Document adds every route with an OpenAPI operation to spec. basePath is
// prepended to each path.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	walk(groups, func(path string, tags []string, r Route) {
		if r.OpenAPI == nil {
			return
		}

		op := *r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		spec.AddOperation(r.Method, openAPIPath(basePath+path), &op)
	})
}

func walk(groups []Group, fn func(path string, tags []string, r Route)) {
	var visit func(prefix string, tags []string, g Group)
	visit = func(prefix string, tags []string, g Group) {
		full := prefix + g.Prefix
		tags = slices.Concat(tags, g.Tags)
		for _, r := range g.Routes {
			fn(full+r.Pattern, tags, r)
		}
		for _, child := range g.Children {
			visit(full, tags, child)
		}
	}

	for _, g := range groups {
		visit("", nil, g)
	}
}

// openAPIPath rewrites ServeMux wildcards such as {key...} to {key}.
func openAPIPath(path string) string {
	return strings.ReplaceAll(path, "...}", "}")
}
