package module

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/renci-ner/pkg/middleware"
)

// Router dispatches to mounted modules by first path segment and falls back
// to a native ServeMux for everything else. Router-level middleware wraps
// both.
type Router struct {
	modules    map[string]*Module
	native     *http.ServeMux
	middleware middleware.System
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		modules:    make(map[string]*Module),
		native:     http.NewServeMux(),
		middleware: middleware.New(),
	}
}

// Use appends router-level middleware.
func (r *Router) Use(mw ...middleware.Middleware) {
	r.middleware.Use(mw...)
}

// Handle registers a handler on the native mux.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// HandleFunc registers a handler function on the native mux.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers m for requests under its prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// ServeHTTP applies router middleware and dispatches the request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.middleware.Apply(http.HandlerFunc(r.dispatch)).ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}

	if m, ok := r.modules[firstSegment(path)]; ok {
		m.ServeHTTP(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[1]
	}
	return path
}
