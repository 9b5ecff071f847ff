package entities

import "time"

type OutcomeKind string

const (
	OutcomeApproved         OutcomeKind = "approved"
	OutcomeDeclined         OutcomeKind = "declined"
	OutcomeTransientFailure OutcomeKind = "transient_failure"
)

// GatewayOutcome is the value a gateway returns for one submission.
// Build it with Approved, Declined or TransientFailure.
type GatewayOutcome struct {
	Kind           OutcomeKind
	TransactionRef string
	DeclineReason  string
	RetryAfter     time.Duration
}

func Approved(ref string) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeApproved, TransactionRef: ref}
}

func Declined(ref, reasonCode string) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeDeclined, TransactionRef: ref, DeclineReason: reasonCode}
}

func TransientFailure(retryAfter time.Duration) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeTransientFailure, RetryAfter: retryAfter}
}

// IdempotencyReservation links an idempotency key to the payment created for it.
//
// Fingerprint is the digest of the intent that reserved the key; a later
// request with the same key and a different fingerprint is a conflict.
type IdempotencyReservation struct {
	Key         string
	PaymentID   string
	Fingerprint string
	CreatedAt   time.Time
}
