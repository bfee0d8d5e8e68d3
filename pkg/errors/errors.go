// Package errors provides custom error types for the amiibodex system.
// These errors enable programmatic error checking across the catalog,
// transport, and storage layers without string matching.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the amiibodex system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyOwned indicates that an item already has an ownership record
	ErrAlreadyOwned = errors.New("already owned")

	// ErrEmptyStore indicates that the persistent store returned zero records
	ErrEmptyStore = errors.New("empty store")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// APIError represents a transport-level failure talking to the remote catalog
// or image host: connection errors, timeouts, and non-2xx responses.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// DecodeError represents a malformed or unexpectedly shaped payload.
type DecodeError struct {
	Format  string // "json", etc.
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s decode error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s decode error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StorageError represents a persistent store failure: reads, writes,
// deletes, and empty result sets where records were expected.
type StorageError struct {
	Operation string // "read", "write", "delete", "clear"
	Entity    string // "item", "ownership", "counter"
	Message   string
	Err       error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("storage error during %s of %s: %s", e.Operation, e.Entity, e.Message)
	}
	return fmt.Sprintf("storage error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyOwned checks if an error is an already owned error
func IsAlreadyOwned(err error) bool {
	return errors.Is(err, ErrAlreadyOwned)
}

// IsEmptyStore checks if an error indicates an empty result set
func IsEmptyStore(err error) bool {
	return errors.Is(err, ErrEmptyStore)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapDecode wraps an error as a DecodeError
func WrapDecode(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapStorage wraps an error as a StorageError
func WrapStorage(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Operation: operation, Entity: entity, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
