package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"ozpay/internal/domain/entities"
)

// Fingerprint digests the fields that identify a logical payment. Two intents
// with the same fingerprint are the same request retried at the edge.
func Fingerprint(intent entities.PaymentIntent) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(strings.TrimSpace(intent.TenantID))
	write(strings.TrimSpace(intent.Method))
	write(intent.Amount.String())
	write(intent.Currency)
	write(intent.MethodToken)
	write(intent.PayerEmail)
	write(intent.Description)

	keys := make([]string, 0, len(intent.Metadata))
	for k := range intent.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k)
		write(intent.Metadata[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IdempotencyKey scopes the caller's key to the tenant; without a caller key
// the fingerprint is used. The tenant is length-prefixed so no tenant/key pair
// can spell another tenant's key.
func IdempotencyKey(intent entities.PaymentIntent, fingerprint string) string {
	tenant := strings.TrimSpace(intent.TenantID)
	if key := strings.TrimSpace(intent.IdempotencyKey); key != "" {
		return fmt.Sprintf("%d:%s#key#%s", len(tenant), tenant, key)
	}
	return fmt.Sprintf("%d:%s#fp#%s", len(tenant), tenant, fingerprint)
}

// RetryPolicy bounds gateway attempts and the blocking calls around them.
type RetryPolicy struct {
	MaxAttempts       int
	GatewayTimeout    time.Duration
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	CredentialTimeout time.Duration
	PersistTimeout    time.Duration
	IdempotencyWait   time.Duration
	IdempotencyPoll   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		GatewayTimeout:    5 * time.Second,
		BackoffBase:       200 * time.Millisecond,
		BackoffMax:        2 * time.Second,
		CredentialTimeout: 2 * time.Second,
		PersistTimeout:    5 * time.Second,
		IdempotencyWait:   10 * time.Second,
		IdempotencyPoll:   100 * time.Millisecond,
	}
}

// withDefaults fills zero fields so a partially configured policy stays bounded.
func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.GatewayTimeout <= 0 {
		p.GatewayTimeout = d.GatewayTimeout
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = d.BackoffBase
	}
	if p.BackoffMax <= 0 {
		p.BackoffMax = d.BackoffMax
	}
	if p.BackoffMax < p.BackoffBase {
		p.BackoffMax = p.BackoffBase
	}
	if p.CredentialTimeout <= 0 {
		p.CredentialTimeout = d.CredentialTimeout
	}
	if p.PersistTimeout <= 0 {
		p.PersistTimeout = d.PersistTimeout
	}
	if p.IdempotencyWait <= 0 {
		p.IdempotencyWait = d.IdempotencyWait
	}
	if p.IdempotencyPoll <= 0 {
		p.IdempotencyPoll = d.IdempotencyPoll
	}
	return p
}

// Backoff returns the delay after the given failed attempt (1-based):
// BackoffBase * 2^(attempt-1), raised to the gateway hint, capped at BackoffMax.
func (p RetryPolicy) Backoff(attempt int, hint time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BackoffMax
	if attempt <= 31 {
		if exp := p.BackoffBase << (attempt - 1); exp > 0 && exp < d {
			d = exp
		}
	}
	if hint > d {
		d = hint
	}
	if d > p.BackoffMax {
		d = p.BackoffMax
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
