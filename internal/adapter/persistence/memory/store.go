package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"
)

// Store keeps payments, credentials and idempotency reservations in process.
// It backs STORAGE_BACKEND=memory and the tests; one mutex serializes all
// writes so Reserve is an atomic check-and-insert.
type Store struct {
	mu           sync.RWMutex
	payments     map[string]entities.Payment
	credentials  map[string]entities.GatewayCredential
	reservations map[string]entities.IdempotencyReservation
}

var (
	_ interfaces.IPaymentRepository    = (*Store)(nil)
	_ interfaces.ICredentialRepository = (*Store)(nil)
	_ interfaces.IIdempotencyStore     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		payments:     map[string]entities.Payment{},
		credentials:  map[string]entities.GatewayCredential{},
		reservations: map[string]entities.IdempotencyReservation{},
	}
}

func (s *Store) Save(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	if err := ctx.Err(); err != nil {
		return entities.Payment{}, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return entities.Payment{}, errors.New("payment id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; ok {
		return entities.Payment{}, interfaces.ErrAlreadyExists
	}
	p.Metadata = copyMetadata(p.Metadata)
	s.payments[p.ID] = p
	p.Metadata = copyMetadata(p.Metadata)
	return p, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (entities.Payment, bool, error) {
	if err := ctx.Err(); err != nil {
		return entities.Payment{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return entities.Payment{}, false, nil
	}
	p.Metadata = copyMetadata(p.Metadata)
	return p, true, nil
}

func (s *Store) FindCredential(ctx context.Context, tenantID, gatewayName string) (entities.GatewayCredential, bool, error) {
	if err := ctx.Err(); err != nil {
		return entities.GatewayCredential{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[credentialKey(tenantID, gatewayName)]
	if !ok {
		return entities.GatewayCredential{}, false, nil
	}
	c.Ciphertext = append([]byte(nil), c.Ciphertext...)
	return c, true, nil
}

func (s *Store) SaveCredential(ctx context.Context, c entities.GatewayCredential) (entities.GatewayCredential, error) {
	if err := ctx.Err(); err != nil {
		return entities.GatewayCredential{}, err
	}
	if strings.TrimSpace(c.TenantID) == "" || strings.TrimSpace(c.GatewayName) == "" {
		return entities.GatewayCredential{}, errors.New("tenant id and gateway name are required")
	}
	c.Ciphertext = append([]byte(nil), c.Ciphertext...)
	s.mu.Lock()
	s.credentials[credentialKey(c.TenantID, c.GatewayName)] = c
	s.mu.Unlock()
	return c, nil
}

func (s *Store) Reserve(ctx context.Context, r entities.IdempotencyReservation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(r.Key) == "" {
		return false, errors.New("idempotency key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.Key]; ok {
		return false, nil
	}
	s.reservations[r.Key] = r
	return true, nil
}

func (s *Store) Find(ctx context.Context, key string) (entities.IdempotencyReservation, bool, error) {
	if err := ctx.Err(); err != nil {
		return entities.IdempotencyReservation{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[key]
	return r, ok, nil
}

func (s *Store) Release(ctx context.Context, key, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reservations[key]; ok && r.PaymentID == paymentID {
		delete(s.reservations, key)
	}
	return nil
}

func credentialKey(tenantID, gatewayName string) string {
	return fmt.Sprintf("%d:%s#%s", len(tenantID), tenantID, gatewayName)
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
