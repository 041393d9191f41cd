package openapi

import (
	"maps"
	"net/http"
)

// NewComponents creates Components holding the shared Error schema and one
// error response per status the services return.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: make(map[string]*Response),
	}

	for name, status := range errorResponses {
		c.Responses[name] = &Response{
			Description: http.StatusText(status),
			Content: map[string]*MediaType{
				"application/json": {Schema: SchemaRef("Error")},
			},
		}
	}

	return c
}

var errorResponses = map[string]int{
	"BadRequest":          http.StatusBadRequest,
	"NotFound":            http.StatusNotFound,
	"PayloadTooLarge":     http.StatusRequestEntityTooLarge,
	"InternalServerError": http.StatusInternalServerError,
	"BadGateway":          http.StatusBadGateway,
	"ServiceUnavailable":  http.StatusServiceUnavailable,
	"GatewayTimeout":      http.StatusGatewayTimeout,
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
