package speedrun

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrRelationNotFound indicates an entity carries no link for a relation
	ErrRelationNotFound = errors.New("relation not found")
	// ErrMalformedResponse indicates a payload is missing a required field
	// or has an unexpected shape
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError represents a non-2xx response from the speedrun.com API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("speedrun API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("speedrun API error: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.IsNotFound()
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the server rejected the request for throttling
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// RelationError is returned when an entity has no link for a relation.
// Callers only request relations the API guarantees for an entity kind, so
// this signals a broken contract rather than a normal outcome.
type RelationError struct {
	Kind     string
	ID       string
	Relation string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("%s %q has no %q link", e.Kind, e.ID, e.Relation)
}

func (e *RelationError) Unwrap() error {
	return ErrRelationNotFound
}

// DecodeError describes a required field that was absent or mistyped
type DecodeError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("malformed response: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s: field %q: %s", e.Kind, e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedResponse
}
