package interfaces

import (
	"context"

	"ozpay/internal/domain/entities"
)

// IIdempotencyStore guards against duplicate submission.
//
// Reserve must be an atomic check-and-insert: it returns true only for the
// caller that created the reservation. Release removes a reservation owned by
// paymentID and is used when the payment could not be persisted.
type IIdempotencyStore interface {
	Reserve(ctx context.Context, r entities.IdempotencyReservation) (bool, error)
	Find(ctx context.Context, key string) (entities.IdempotencyReservation, bool, error)
	Release(ctx context.Context, key, paymentID string) error
}
