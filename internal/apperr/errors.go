// Package apperr defines the error taxonomy shared across the RAG pipeline.
//
// Three kinds of failures exist: configuration errors (missing credentials,
// detected at construction and fatal for the process), validation errors
// (malformed caller input, reported as a bad request), and upstream errors
// (any failure from the embedding, vector index, or chat completion
// services). Errors are classified where they occur and propagate unchanged
// to the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when required configuration is missing.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream is returned when a call to an external service fails.
	ErrUpstream = errors.New("upstream service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Configuration returns a configuration error with the given description.
func Configuration(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConfiguration)
}

// Upstream wraps an external service failure so callers can classify it
// with errors.Is(err, ErrUpstream) while keeping the original cause.
func Upstream(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrUpstream, err)
}
