package domain

import (
	"encoding/json"
	"time"
)

// ConfirmationState is the lifecycle state of a confirmation record.
type ConfirmationState string

// Confirmation states. Pending and Approved are open; every other state is terminal.
const (
	// ConfirmationPending awaits a human decision.
	ConfirmationPending ConfirmationState = "pending"

	// ConfirmationApproved has been approved but the effect has not run yet.
	ConfirmationApproved ConfirmationState = "approved"

	// ConfirmationRejected was declined; the effect never runs.
	ConfirmationRejected ConfirmationState = "rejected"

	// ConfirmationTimedOut stayed pending past its TTL; the effect never runs.
	ConfirmationTimedOut ConfirmationState = "timed_out"

	// ConfirmationApplying is held by exactly one caller running the effect.
	ConfirmationApplying ConfirmationState = "applying"

	// ConfirmationApplied ran the effect once; the result is recorded.
	ConfirmationApplied ConfirmationState = "applied"

	// ConfirmationFailed ran the effect once and it returned an error.
	ConfirmationFailed ConfirmationState = "failed"
)

// IsValid returns true if the state is recognised.
func (s ConfirmationState) IsValid() bool {
	switch s {
	case ConfirmationPending, ConfirmationApproved, ConfirmationRejected, ConfirmationTimedOut,
		ConfirmationApplying, ConfirmationApplied, ConfirmationFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is possible.
func (s ConfirmationState) IsTerminal() bool {
	switch s {
	case ConfirmationRejected, ConfirmationTimedOut, ConfirmationApplied, ConfirmationFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ConfirmationState) String() string {
	return string(s)
}

// Confirmation is the record behind one correlation token.
type Confirmation struct {
	// Token is the opaque correlation token handed to the caller.
	Token string `json:"confirmation_token"`

	// Tool is the name of the gated tool.
	Tool string `json:"tool"`

	// Fingerprint identifies the arguments the confirmation was issued for.
	Fingerprint string `json:"-"`

	// Target is the human-readable subject, e.g. the product name.
	Target string `json:"target"`

	// Preview is a truncated rendering of what will be written.
	Preview string `json:"preview"`

	// Consequence states what approving will do.
	Consequence string `json:"consequence"`

	// State is the current lifecycle state.
	State ConfirmationState `json:"state"`

	// CreatedAt is when the confirmation was requested.
	CreatedAt time.Time `json:"created_at"`

	// DecidedAt is when a decision or timeout was recorded.
	DecidedAt *time.Time `json:"decided_at,omitempty"`

	// DecidedBy names who decided, when known.
	DecidedBy string `json:"decided_by,omitempty"`

	// Result is the recorded effect result for applied confirmations.
	Result json.RawMessage `json:"result,omitempty"`

	// Error is the recorded effect error for failed confirmations.
	Error string `json:"error,omitempty"`
}

// Expired reports whether a pending confirmation is older than ttl at now.
// A non-positive ttl never expires.
func (c *Confirmation) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || c.State != ConfirmationPending {
		return false
	}
	return now.Sub(c.CreatedAt) > ttl
}

// OutcomeStatus is the first-class result of a gated call.
type OutcomeStatus string

// Gated call outcomes. None of these are errors.
const (
	// OutcomePending means the confirmation awaits approval; nothing was written.
	OutcomePending OutcomeStatus = "awaiting_confirmation"

	// OutcomeApplied means the effect ran during this call.
	OutcomeApplied OutcomeStatus = "applied"

	// OutcomeReplayed means the effect ran earlier; the recorded result is returned.
	OutcomeReplayed OutcomeStatus = "already_applied"

	// OutcomeRejected means the confirmation was rejected or timed out.
	OutcomeRejected OutcomeStatus = "not_approved"
)

// ConfirmationRequest is one invocation of a gated tool.
type ConfirmationRequest struct {
	// Tool is the gated tool name.
	Tool string

	// Token is empty on the first call and carries the correlation token afterwards.
	Token string

	// Confirmed is the caller's decision; nil means no decision was supplied.
	Confirmed *bool

	// Arguments are the tool arguments the effect will run with,
	// excluding the token and decision fields.
	Arguments map[string]any

	// Target, Preview and Consequence describe the effect for a human.
	Target      string
	Preview     string
	Consequence string
}

// ConfirmationOutcome is the result of submitting a gated call.
type ConfirmationOutcome struct {
	Status       OutcomeStatus
	Confirmation *Confirmation

	// Result is the effect's JSON result when Status is applied or already_applied.
	Result json.RawMessage
}

// Replayed reports whether the result was recorded by an earlier call.
func (o *ConfirmationOutcome) Replayed() bool {
	return o.Status == OutcomeReplayed
}
