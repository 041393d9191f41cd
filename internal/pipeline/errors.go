package pipeline

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaimeStill/renci-ner/annotation"
)

// Domain errors for pipeline runs.
var (
	ErrUnknownMethod = errors.New("unknown annotation method")
	ErrInvalidLimit  = errors.New("limit must be positive")
)

// MapHTTPStatus maps pipeline and annotation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, annotation.ErrService):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidLimit),
		errors.Is(err, annotation.ErrConfiguration),
		errors.Is(err, annotation.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
