package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/renci-ner/internal/pipeline"
	"github.com/JaimeStill/renci-ner/pkg/handlers"
	"github.com/JaimeStill/renci-ner/pkg/middleware"
	"github.com/JaimeStill/renci-ner/pkg/routes"
)

// AnnotateRequest is the body of POST /annotate. Blank text yields an empty
// result.
type AnnotateRequest struct {
	Text   string `json:"text"`
	Method string `json:"method,omitempty"`
	pipeline.Request
}

// ErrNotReady is returned while service versions are still being discovered.
var ErrNotReady = errors.New("annotation services are not ready")

type annotationHandler struct {
	pipelines   pipeline.System
	ready       func() bool
	logger      *slog.Logger
	maxBodySize int64
}

func newAnnotationHandler(pipelines pipeline.System, ready func() bool, logger *slog.Logger, maxBodySize int64) *annotationHandler {
	return &annotationHandler{
		pipelines:   pipelines,
		ready:       ready,
		logger:      logger.With("handler", "annotation"),
		maxBodySize: maxBodySize,
	}
}

func (h *annotationHandler) routes() routes.Group {
	return routes.Group{
		Tags: []string{"Annotation"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/annotate", Handler: h.annotate, OpenAPI: annotateOp},
			{Method: "POST", Pattern: "/annotate/{method}", Handler: h.annotate, OpenAPI: annotateMethodOp},
			{Method: "GET", Pattern: "/methods", Handler: h.methods, OpenAPI: methodsOp},
			{Method: "GET", Pattern: "/services", Handler: h.services, OpenAPI: servicesOp},
		},
	}
}

func (h *annotationHandler) annotate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", middleware.GetRequestID(r.Context()))

	// provenance versions are fixed once discovery settles
	if !h.ready() {
		w.Header().Set("Retry-After", "1")
		handlers.RespondError(w, logger, http.StatusServiceUnavailable, ErrNotReady)
		return
	}

	var req AnnotateRequest
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, handlers.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		handlers.RespondError(w, logger, status, err)
		return
	}

	method := req.Method
	if m := r.PathValue("method"); m != "" {
		method = m
	}

	result, err := h.pipelines.Run(r.Context(), method, req.Text, req.Request)
	if err != nil {
		handlers.RespondError(w, logger, pipeline.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *annotationHandler) methods(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.pipelines.Methods())
}

func (h *annotationHandler) services(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.pipelines.Services())
}
