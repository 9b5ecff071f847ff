package entities

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPayment    = errors.New("invalid payment")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

// PaymentStatus represents the payment lifecycle.
//
// PENDING is the only non-terminal state. APPROVED, DECLINED and FAILED are kept
// forever as the audit record of the attempt.

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusDeclined PaymentStatus = "DECLINED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusDeclined, PaymentStatusFailed:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s.IsTerminal()
}

const (
	MetadataDeclineReason = "decline_reason"
	MetadataFailureReason = "failure_reason"

	FailureRetriesExhausted = "retries_exhausted"
	FailureRequestCancelled = "request_cancelled"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Payment is the aggregate routed through a gateway.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Monetary representation:
//   - Amount is a fixed-point decimal with at most two fractional digits.
//
// TransactionRef is only assigned when the gateway answered with a verdict,
// so it is present iff Status is APPROVED or DECLINED.

type Payment struct {
	ID             string
	TenantID       string
	Amount         decimal.Decimal
	Currency       string
	Method         string
	Status         PaymentStatus
	TransactionRef string
	IdempotencyKey string
	Attempts       int
	Metadata       map[string]string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPayment builds a PENDING payment and runs the domain guard on it.
// Metadata keys written by status transitions cannot be supplied by the caller.
func NewPayment(id, tenantID string, amount decimal.Decimal, currency, method string, metadata map[string]string, now time.Time) (*Payment, error) {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if IsReservedMetadataKey(k) {
			return nil, fmt.Errorf("%w: metadata key %q is reserved", ErrInvalidPayment, k)
		}
		md[k] = v
	}
	now = now.UTC()
	p := &Payment{
		ID:        strings.TrimSpace(id),
		TenantID:  strings.TrimSpace(tenantID),
		Amount:    amount,
		Currency:  currency,
		Method:    strings.TrimSpace(method),
		Status:    PaymentStatusPending,
		Metadata:  md,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants that hold in every state.
func (p *Payment) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPayment)
	}
	if p.TenantID == "" {
		return fmt.Errorf("%w: tenant id is required", ErrInvalidPayment)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidPayment)
	}
	if !p.Amount.Equal(p.Amount.Truncate(2)) {
		return fmt.Errorf("%w: amount supports at most two decimal places", ErrInvalidPayment)
	}
	if !currencyPattern.MatchString(p.Currency) {
		return fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidPayment)
	}
	if p.Method == "" {
		return fmt.Errorf("%w: payment method is required", ErrInvalidPayment)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPayment, p.Status)
	}
	hasRef := p.TransactionRef != ""
	reached := p.Status == PaymentStatusApproved || p.Status == PaymentStatusDeclined
	if hasRef != reached {
		return fmt.Errorf("%w: transaction reference does not match status %s", ErrInvalidPayment, p.Status)
	}
	return nil
}

func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// RecordAttempt counts one gateway call. Only a PENDING payment can be submitted.
func (p *Payment) RecordAttempt() error {
	if p.Status != PaymentStatusPending {
		return fmt.Errorf("%w: cannot submit a %s payment", ErrInvalidTransition, p.Status)
	}
	p.Attempts++
	return nil
}

func (p *Payment) Approve(ref string, now time.Time) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("%w: approval without transaction reference", ErrInvalidTransition)
	}
	return p.transition(PaymentStatusApproved, now, func() {
		p.TransactionRef = ref
	})
}

func (p *Payment) Decline(ref, reason string, now time.Time) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("%w: decline without transaction reference", ErrInvalidTransition)
	}
	return p.transition(PaymentStatusDeclined, now, func() {
		p.TransactionRef = ref
		p.setMetadata(MetadataDeclineReason, reasonOrUnknown(reason))
	})
}

func (p *Payment) Fail(reason string, now time.Time) error {
	return p.transition(PaymentStatusFailed, now, func() {
		p.setMetadata(MetadataFailureReason, reasonOrUnknown(reason))
	})
}

func (p *Payment) transition(to PaymentStatus, now time.Time, apply func()) error {
	if p.Status != PaymentStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	apply()
	p.Status = to
	p.UpdatedAt = now.UTC()
	return nil
}

func (p *Payment) setMetadata(key, value string) {
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	p.Metadata[key] = value
}

func IsReservedMetadataKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case MetadataDeclineReason, MetadataFailureReason:
		return true
	}
	return false
}

func reasonOrUnknown(reason string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return "unknown"
}
