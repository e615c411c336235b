package driven

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// ConfirmationStore persists confirmation records keyed by token.
// Implementations must make CompareAndSwap atomic per token.
type ConfirmationStore interface {
	// Create inserts a new record. Returns domain.ErrAlreadyExists for a duplicate token.
	Create(ctx context.Context, c *domain.Confirmation) error

	// Get returns a copy of the record.
	// Returns domain.ErrConfirmationNotFound if the token is unknown.
	Get(ctx context.Context, token string) (*domain.Confirmation, error)

	// CompareAndSwap replaces the record with next if its current state is from.
	// Returns false without error when the state has moved on.
	CompareAndSwap(ctx context.Context, from domain.ConfirmationState, next *domain.Confirmation) (bool, error)

	// ListPending returns records in the pending or approved state, oldest first.
	ListPending(ctx context.Context) ([]domain.Confirmation, error)
}
