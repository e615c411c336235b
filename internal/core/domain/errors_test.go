package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrStorage", ErrStorage},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrSearchUnavailable", ErrSearchUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrConfirmationNotFound", ErrConfirmationNotFound},
		{"ErrConfirmationMismatch", ErrConfirmationMismatch},
		{"ErrConfirmationInProgress", ErrConfirmationInProgress},
		{"ErrConfirmationClosed", ErrConfirmationClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("missing field message", func(t *testing.T) {
		err := NewValidationError("product_name")
		assert.Equal(t, "product_name is required", err.Error())
	})

	t.Run("custom reason", func(t *testing.T) {
		err := &ValidationError{Field: "content", Reason: "must not be blank"}
		assert.Equal(t, "content must not be blank", err.Error())
	})

	t.Run("matches ErrInvalidInput through wrapping", func(t *testing.T) {
		err := fmt.Errorf("store: %w", NewValidationError("content"))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.NotErrorIs(t, err, ErrNotFound)

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "content", verr.Field)
	})
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{ID: "widget_1700000000"}

	assert.Equal(t, "PRD not found: widget_1700000000", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("get: %w", err), ErrNotFound)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")

	t.Run("names representation and key", func(t *testing.T) {
		err := &StorageError{Op: "write", Representation: RepresentationHTML, Key: "prds/a.html", Err: cause}
		assert.Equal(t, "storage error: html write failed for prds/a.html: disk full", err.Error())
	})

	t.Run("without key", func(t *testing.T) {
		err := &StorageError{Op: "list", Err: cause}
		assert.Equal(t, "storage error: store list failed: disk full", err.Error())
	})

	t.Run("unwraps and matches category", func(t *testing.T) {
		err := &StorageError{Op: "write", Representation: RepresentationMarkdown, Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrStorage)
	})
}
