package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/logger"
	"github.com/custodia-labs/prdstore/internal/metrics"
)

// Ensure ConfirmationGate implements the interface.
var _ driving.ConfirmationGate = (*ConfirmationGate)(nil)

// maxTransitionAttempts bounds re-reads after losing a compare-and-swap.
const maxTransitionAttempts = 8

// ConfirmationGate runs guarded effects at most once per token, and only
// after the token has been approved.
type ConfirmationGate struct {
	store driven.ConfirmationStore
	ttl   time.Duration
	now   func() time.Time
}

// NewConfirmationGate creates a gate over store.
// Pending confirmations older than ttl time out; a zero ttl disables expiry.
func NewConfirmationGate(store driven.ConfirmationStore, ttl time.Duration) *ConfirmationGate {
	return &ConfirmationGate{store: store, ttl: ttl, now: time.Now}
}

// Submit creates a pending confirmation when req carries no token, and
// otherwise advances the token's state machine. The effect runs only on the
// approved to applying transition, which exactly one caller wins.
func (g *ConfirmationGate) Submit(
	ctx context.Context, req domain.ConfirmationRequest, effect driving.Effect,
) (*domain.ConfirmationOutcome, error) {
	fingerprint, err := Fingerprint(req.Arguments)
	if err != nil {
		return nil, err
	}

	if req.Token == "" {
		return g.create(ctx, req, fingerprint)
	}

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		c, err := g.store.Get(ctx, req.Token)
		if err != nil {
			return nil, err
		}
		if c.Tool != req.Tool || c.Fingerprint != fingerprint {
			return nil, domain.ErrConfirmationMismatch
		}

		outcome, retry, err := g.advance(ctx, c, req.Confirmed, effect)
		if err != nil || !retry {
			return outcome, err
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrConfirmationInProgress, req.Token)
}

func (g *ConfirmationGate) create(
	ctx context.Context, req domain.ConfirmationRequest, fingerprint string,
) (*domain.ConfirmationOutcome, error) {
	c := &domain.Confirmation{
		Token:       uuid.NewString(),
		Tool:        req.Tool,
		Fingerprint: fingerprint,
		Target:      req.Target,
		Preview:     req.Preview,
		Consequence: req.Consequence,
		State:       domain.ConfirmationPending,
		CreatedAt:   g.now().UTC(),
	}
	if err := g.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create confirmation: %w", err)
	}
	metrics.Confirmation(c.State.String())
	logger.Info("confirmation %s pending for %s", c.Token, req.Tool)

	return &domain.ConfirmationOutcome{Status: domain.OutcomePending, Confirmation: c}, nil
}

// advance performs one transition from c's current state. retry is true when
// a compare-and-swap was lost and the record must be re-read.
func (g *ConfirmationGate) advance(
	ctx context.Context, c *domain.Confirmation, confirmed *bool, effect driving.Effect,
) (outcome *domain.ConfirmationOutcome, retry bool, err error) {
	switch c.State {
	case domain.ConfirmationPending:
		if c.Expired(g.now(), g.ttl) {
			return g.close(ctx, c, domain.ConfirmationTimedOut, "")
		}
		if confirmed == nil {
			return &domain.ConfirmationOutcome{Status: domain.OutcomePending, Confirmation: c}, false, nil
		}
		if !*confirmed {
			return g.close(ctx, c, domain.ConfirmationRejected, "")
		}
		next := g.decided(c, domain.ConfirmationApproved, "")
		ok, err := g.store.CompareAndSwap(ctx, domain.ConfirmationPending, next)
		if err != nil {
			return nil, false, err
		}
		if ok {
			metrics.Confirmation(next.State.String())
		}
		return nil, true, nil

	case domain.ConfirmationApproved:
		if confirmed != nil && !*confirmed {
			return g.close(ctx, c, domain.ConfirmationRejected, "")
		}
		return g.apply(ctx, c, effect)

	case domain.ConfirmationApplying:
		return nil, false, fmt.Errorf("%w: %s", domain.ErrConfirmationInProgress, c.Token)

	case domain.ConfirmationApplied:
		return &domain.ConfirmationOutcome{Status: domain.OutcomeReplayed, Confirmation: c, Result: c.Result}, false, nil

	case domain.ConfirmationRejected, domain.ConfirmationTimedOut:
		return &domain.ConfirmationOutcome{Status: domain.OutcomeRejected, Confirmation: c}, false, nil

	case domain.ConfirmationFailed:
		return nil, false, fmt.Errorf("%w: %s failed: %s", domain.ErrConfirmationClosed, c.Token, c.Error)

	default:
		return nil, false, fmt.Errorf("confirmation %s has unknown state %q", c.Token, c.State)
	}
}

// apply claims the token and runs the effect. Losing the claim means another
// caller is running or has run it.
func (g *ConfirmationGate) apply(
	ctx context.Context, c *domain.Confirmation, effect driving.Effect,
) (*domain.ConfirmationOutcome, bool, error) {
	claimed := *c
	claimed.State = domain.ConfirmationApplying
	ok, err := g.store.CompareAndSwap(ctx, domain.ConfirmationApproved, &claimed)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, true, nil
	}

	result, effectErr := effect(ctx)

	done := claimed
	if effectErr == nil {
		done.Result, effectErr = json.Marshal(result)
	}
	if effectErr != nil {
		done.State = domain.ConfirmationFailed
		done.Error = effectErr.Error()
		done.Result = nil
	} else {
		done.State = domain.ConfirmationApplied
	}

	// The effect has run; record it even if the caller has gone away.
	if _, err := g.store.CompareAndSwap(context.WithoutCancel(ctx), domain.ConfirmationApplying, &done); err != nil {
		logger.Error("record confirmation %s as %s: %v", c.Token, done.State, err)
	}
	metrics.Confirmation(done.State.String())

	if effectErr != nil {
		return nil, false, effectErr
	}
	logger.Info("confirmation %s applied", c.Token)
	return &domain.ConfirmationOutcome{Status: domain.OutcomeApplied, Confirmation: &done, Result: done.Result}, false, nil
}

// close moves c to a terminal state without running the effect.
func (g *ConfirmationGate) close(
	ctx context.Context, c *domain.Confirmation, state domain.ConfirmationState, by string,
) (*domain.ConfirmationOutcome, bool, error) {
	next := g.decided(c, state, by)
	ok, err := g.store.CompareAndSwap(ctx, c.State, next)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, true, nil
	}
	metrics.Confirmation(state.String())
	logger.Info("confirmation %s %s", c.Token, state)
	return &domain.ConfirmationOutcome{Status: domain.OutcomeRejected, Confirmation: next}, false, nil
}

func (g *ConfirmationGate) decided(c *domain.Confirmation, state domain.ConfirmationState, by string) *domain.Confirmation {
	next := *c
	now := g.now().UTC()
	next.State = state
	next.DecidedAt = &now
	next.DecidedBy = by
	return &next
}

// Decide records an out-of-band approval or rejection of a pending confirmation.
func (g *ConfirmationGate) Decide(ctx context.Context, token string, approved bool, by string) (*domain.Confirmation, error) {
	c, err := g.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if c.State != domain.ConfirmationPending {
		return c, fmt.Errorf("%w: %s is %s", domain.ErrConfirmationClosed, token, c.State)
	}

	state := domain.ConfirmationRejected
	if approved {
		state = domain.ConfirmationApproved
	}
	if c.Expired(g.now(), g.ttl) {
		state = domain.ConfirmationTimedOut
	}

	next := g.decided(c, state, by)
	ok, err := g.store.CompareAndSwap(ctx, domain.ConfirmationPending, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s changed concurrently", domain.ErrConfirmationClosed, token)
	}
	metrics.Confirmation(state.String())

	if state == domain.ConfirmationTimedOut {
		return next, fmt.Errorf("%w: %s timed out", domain.ErrConfirmationClosed, token)
	}
	return next, nil
}

// Get returns a confirmation by token.
func (g *ConfirmationGate) Get(ctx context.Context, token string) (*domain.Confirmation, error) {
	return g.store.Get(ctx, token)
}

// ListPending returns confirmations awaiting a decision or an apply.
func (g *ConfirmationGate) ListPending(ctx context.Context) ([]domain.Confirmation, error) {
	return g.store.ListPending(ctx)
}

// Fingerprint hashes the canonical JSON encoding of args.
// encoding/json sorts map keys, so equal argument maps hash equally.
func Fingerprint(args map[string]any) (string, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%w: arguments are not serialisable: %v", domain.ErrInvalidInput, err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// IsConfirmationError reports whether err belongs to the confirmation workflow.
func IsConfirmationError(err error) bool {
	return errors.Is(err, domain.ErrConfirmationNotFound) ||
		errors.Is(err, domain.ErrConfirmationMismatch) ||
		errors.Is(err, domain.ErrConfirmationInProgress) ||
		errors.Is(err, domain.ErrConfirmationClosed)
}
