package driving

import (
	"context"

	"github.com/custodia-labs/prdstore/internal/core/domain"
)

// Effect is the irreversible operation a confirmation guards.
// Its result is recorded as JSON.
type Effect func(ctx context.Context) (any, error)

// ConfirmationGate blocks an effect until a human approves it,
// and runs it at most once per token.
type ConfirmationGate interface {
	// Submit advances the confirmation named by req.Token, or creates one.
	Submit(ctx context.Context, req domain.ConfirmationRequest, effect Effect) (*domain.ConfirmationOutcome, error)

	// Decide records an out-of-band decision on a pending confirmation.
	Decide(ctx context.Context, token string, approved bool, by string) (*domain.Confirmation, error)

	// Get returns a confirmation by token.
	Get(ctx context.Context, token string) (*domain.Confirmation, error)

	// ListPending returns confirmations that have not reached a terminal state.
	ListPending(ctx context.Context) ([]domain.Confirmation, error)
}
