package api

import (
	"net/http"

	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/pkg/openapi"
	"github.com/JaimeStill/renci-ner/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	annotation := newAnnotationHandler(domain.Pipelines, runtime.Lifecycle.Ready, runtime.Logger, runtime.MaxBodySize)
	routes.Register(mux, annotation.routes())

	data, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))

	return nil
}

// NewSpec builds the OpenAPI document for the API module.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.FromConfig(&cfg.API.OpenAPI, cfg.Version)
	spec.Components.AddSchemas(schemas)
	routes.Document(spec, cfg.API.BasePath, (&annotationHandler{}).routes())
	return spec
}
