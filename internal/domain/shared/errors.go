// Package shared contains error kinds and helpers used across all domain
// packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrNotFound marks a lookup miss. Repositories return nil values for
	// misses at the façade boundary; the kind exists for infrastructure code.
	ErrNotFound = errors.New("entity not found")

	// ErrValidation marks input the caller must correct.
	ErrValidation = errors.New("validation error")

	// ErrStorageCorruption marks an unreadable persisted value. It never
	// leaves the session store.
	ErrStorageCorruption = errors.New("storage corruption")

	// ErrStorageUnavailable marks a backend that could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "session", "course", "quiz"
	Op      string // Operation that failed, e.g., "Create", "Submit"
	Field   string // Offending input field, if any
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error naming the offending field so
// the presentation layer can attach the message to it.
func NewValidationError(domain, op, field, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Field:   field,
		Kind:    ErrValidation,
		Message: message,
	}
}

// Session domain errors
var (
	ErrEmptyUsername = NewValidationError("session", "Create", "username", "username is required")
)

// Feedback domain errors
var (
	ErrInvalidRating   = NewValidationError("feedback", "Validate", "rating", "rating must be between 1 and 5")
	ErrInvalidCategory = NewValidationError("feedback", "Validate", "category", "unknown feedback category")
	ErrMessageTooLong  = NewValidationError("feedback", "Validate", "message", "message must be at most 500 characters")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStorageCorruption checks if the error is a corrupt persisted value.
func IsStorageCorruption(err error) bool {
	return errors.Is(err, ErrStorageCorruption)
}

// ValidationField returns the field name carried by a validation error, or "".
func ValidationField(err error) string {
	var de *DomainError
	if errors.As(err, &de) && errors.Is(de.Kind, ErrValidation) {
		return de.Field
	}
	return ""
}

// IsStorageUnavailable checks if the error is an unreachable backend.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
