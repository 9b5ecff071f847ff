package interfaces

import (
	"context"
	"errors"

	"ozpay/internal/domain/entities"
)

// ErrAlreadyExists is returned by conditional inserts when the key is taken.
var ErrAlreadyExists = errors.New("record already exists")

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Save is a conditional insert: a payment is written once, in its terminal state.

type IPaymentRepository interface {
	Save(ctx context.Context, p entities.Payment) (entities.Payment, error)
	FindByID(ctx context.Context, id string) (entities.Payment, bool, error)
}
