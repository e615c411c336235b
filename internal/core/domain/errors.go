package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage indicates a durable read or write failed.
	ErrStorage = errors.New("storage failure")

	// ErrUnsupportedType indicates an unknown backend name in configuration.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSearchUnavailable indicates the search index is not configured or not ready.
	// It never reaches callers: search degrades to the fallback scanner.
	ErrSearchUnavailable = errors.New("search index unavailable")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Confirmation errors.

	// ErrConfirmationNotFound indicates an unknown confirmation token.
	ErrConfirmationNotFound = errors.New("confirmation not found")

	// ErrConfirmationMismatch indicates a token was resubmitted with different arguments.
	ErrConfirmationMismatch = errors.New("confirmation token does not match the submitted arguments")

	// ErrConfirmationInProgress indicates another call is applying the same confirmation.
	ErrConfirmationInProgress = errors.New("confirmation is already being applied")

	// ErrConfirmationClosed indicates a decision was attempted on a terminal confirmation.
	ErrConfirmationClosed = errors.New("confirmation is no longer pending")
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is reports ErrInvalidInput so callers can match the category.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError returns a ValidationError for a missing field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// NotFoundError reports an unknown document ID.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return "PRD not found: " + e.ID
}

// Is reports ErrNotFound so callers can match the category.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Representations of a stored document.
const (
	RepresentationMarkdown = "markdown"
	RepresentationHTML     = "html"
)

// StorageError reports a failed durable operation and which
// representation or sub-operation it concerned.
type StorageError struct {
	// Op is the sub-operation, e.g. "write", "read", "render".
	Op string

	// Representation is "markdown" or "html"; empty for enumeration.
	Representation string

	// Key is the object key involved, if any.
	Key string

	// Err is the underlying backend error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	target := e.Representation
	if target == "" {
		target = "store"
	}
	if e.Key != "" {
		return fmt.Sprintf("storage error: %s %s failed for %s: %v", target, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error: %s %s failed: %v", target, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports ErrStorage so callers can match the category.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
