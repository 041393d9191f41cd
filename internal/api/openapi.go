package api

import (
	"github.com/JaimeStill/renci-ner/internal/pipeline"
	"github.com/JaimeStill/renci-ner/pkg/openapi"
)

var (
	str     = &openapi.Schema{Type: "string"}
	integer = &openapi.Schema{Type: "integer"}
	anyMap  = &openapi.Schema{Type: "object", Description: "Free-form properties"}
)

var schemas = map[string]*openapi.Schema{
	"Provenance": {
		Type:        "object",
		Description: "Identifies the service that produced an annotation.",
		Properties: map[string]*openapi.Schema{
			"name":    str,
			"url":     str,
			"version": {Type: "string", Description: "Service version, NA when unknown"},
		},
	},
	"Annotation": {
		Type:        "object",
		Description: "A typed, identified span. Normalized annotations add curie and biolink_type.",
		Properties: map[string]*openapi.Schema{
			"text":         str,
			"id":           str,
			"label":        str,
			"type":         str,
			"start":        integer,
			"end":          integer,
			"provenances":  openapi.ArrayOf(openapi.SchemaRef("Provenance")),
			"based_on":     openapi.ArrayOf(openapi.SchemaRef("Annotation")),
			"props":        anyMap,
			"curie":        str,
			"biolink_type": {Type: "string", Example: "biolink:AnatomicalEntity"},
		},
	},
	"AnnotatedText": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"text":        str,
			"annotations": openapi.ArrayOf(openapi.SchemaRef("Annotation")),
		},
	},
	"AnnotateRequest": {
		Type:     "object",
		Required: []string{"text"},
		Properties: map[string]*openapi.Schema{
			"text":             {Type: "string", Example: "The brain is a significant part of the nervous system."},
			"method":           methodSchema(),
			"limit":            openapi.IntegerMin(0, "Linker results per recognized span; 0 selects the configured default"),
			"props":            anyMap,
			"normalizer_props": anyMap,
		},
	},
	"RunResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"run_id": {Type: "string", Format: "uuid"},
			"method": str,
			"result": openapi.SchemaRef("AnnotatedText"),
		},
	},
	"MethodInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":    str,
			"default": {Type: "boolean"},
			"stages":  openapi.ArrayOf(openapi.SchemaRef("Provenance")),
		},
	},
	"ServiceInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"role":                 {Type: "string", Enum: []any{"recognizer", "linker", "normalizer"}},
			"provenance":           openapi.SchemaRef("Provenance"),
			"supported_properties": openapi.MapOf(str),
		},
	},
}

func methodSchema() *openapi.Schema {
	s := &openapi.Schema{Type: "string", Description: "Annotation method; the configured default when omitted"}
	for _, m := range pipeline.Methods {
		s.Enum = append(s.Enum, m)
	}
	return s
}

var annotateResponses = map[int]*openapi.Response{
	200: openapi.ResponseJSON("Annotated text", "RunResult"),
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	413: openapi.ResponseRef("PayloadTooLarge"),
	502: openapi.ResponseRef("BadGateway"),
	503: openapi.ResponseRef("ServiceUnavailable"),
	504: openapi.ResponseRef("GatewayTimeout"),
}

var annotateOp = &openapi.Operation{
	Summary:     "Annotate text",
	Description: "Recognizes biomedical spans, links each to candidate concepts, and normalizes the results.",
	RequestBody: openapi.RequestBodyJSON("AnnotateRequest", true),
	Responses:   annotateResponses,
}

var annotateMethodOp = &openapi.Operation{
	Summary:     "Annotate text with a named method",
	Description: "Like POST /annotate; the path method overrides the body.",
	Parameters:  []*openapi.Parameter{openapi.PathParam("method", "Annotation method", pipeline.Methods...)},
	RequestBody: openapi.RequestBodyJSON("AnnotateRequest", true),
	Responses:   annotateResponses,
}

var methodsOp = &openapi.Operation{
	Summary: "List annotation methods",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Methods and their stages",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.ArrayOf(openapi.SchemaRef("MethodInfo"))},
			},
		},
	},
}

var servicesOp = &openapi.Operation{
	Summary: "List remote services",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Service provenance and supported properties",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.ArrayOf(openapi.SchemaRef("ServiceInfo"))},
			},
		},
	},
}
