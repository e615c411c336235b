package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// Common Google API errors without a domain equivalent.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")
)

// Code returns the HTTP status of a googleapi.Error, or 0.
func Code(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || Code(err) == http.StatusNotFound
}

// IsPreconditionFailed returns true if a generation precondition rejected the write.
func IsPreconditionFailed(err error) bool {
	return Code(err) == http.StatusPreconditionFailed
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || Code(err) == http.StatusTooManyRequests
}

// WrapError converts a Google API error into a domain error.
// The original error stays in the chain for logging.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch Code(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	default:
		return err
	}
}
