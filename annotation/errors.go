package annotation

import (
	"errors"
	"fmt"
)

// Sentinel errors for annotation operations.
var (
	ErrValidation       = errors.New("validation failed")
	ErrService          = errors.New("service call failed")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrReannotateFailed = errors.New("reannotation failed")
)

// ValidationError reports a field value that violates a type invariant.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrValidation, e.Field, e.Value, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ServiceError reports a transport or protocol failure of a remote annotator
// or normalizer. StatusCode is zero when no response was received.
type ServiceError struct {
	Service    string
	StatusCode int
	Detail     string
	Err        error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrService, e.Service)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the ErrService sentinel and the underlying cause.
func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrService}
	}
	return []error{ErrService, e.Err}
}

// ConfigurationError reports a property key an annotator does not support.
type ConfigurationError struct {
	Annotator string
	Key       string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s does not support property %q", ErrConfiguration, e.Annotator, e.Key)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
