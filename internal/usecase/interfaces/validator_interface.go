package interfaces

import "ozpay/internal/domain/entities"

// IPaymentValidator checks the structure of an intent before any domain object is built.
type IPaymentValidator interface {
	Validate(intent entities.PaymentIntent) error
}
