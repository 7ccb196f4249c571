package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Local failures caught before any network dispatch
	ErrValidation       = errors.New("local validation failed")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Backend failure classifications, keyed by response status
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable request")
	ErrServer        = errors.New("server error")

	// Transport-level failures
	ErrNoResponse   = errors.New("no response received")
	ErrRequestSetup = errors.New("request could not be constructed")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

// ClientError provides structured error information with context
// It implements the error interface and supports error wrapping
type ClientError struct {
	Op      string // Operation that failed (e.g., "api.UserLogin")
	Kind    string // Error kind (e.g., "unauthorized", "no_response")
	Status  int    // HTTP status when the backend answered, zero otherwise
	Message string // Human-readable message, usually from the response envelope
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *ClientError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError
func NewClientError(op, kind string, err error) *ClientError {
	return &ClientError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsLocal reports whether an error was raised before any network dispatch.
// Local failures never correspond to a backend round-trip.
func IsLocal(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotAuthenticated)
}

// IsAuthFailure reports whether an error indicates a credential problem,
// either a local missing session or a backend rejection.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotAuthenticated)
}

// IsTransport reports whether the request never produced a usable response.
func IsTransport(err error) bool {
	return errors.Is(err, ErrNoResponse) ||
		errors.Is(err, ErrRequestSetup)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}
