package errors

import (
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryValidation        ErrorCategory = "validation"
	CategoryTransport         ErrorCategory = "transport"
	CategoryMalformedResponse ErrorCategory = "malformed_response"
)

// ValidationError represents input validation errors. These fail fast
// before any request document is built and never reach the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// TransportError represents a failure to exchange bytes with the gateway:
// connection errors, timeouts, or a non-2xx HTTP status. It is propagated
// unchanged to the caller; the adapter never retries.
type TransportError struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError represents a gateway response body that could not
// be decoded. It is never coerced into a success result.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed gateway response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed gateway response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
