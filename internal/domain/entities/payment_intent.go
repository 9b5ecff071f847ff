package entities

import "github.com/shopspring/decimal"

// PaymentIntent is the caller's description of a payment to attempt.
//
// Struct tags are read by the validation collaborator; amount and currency
// rules belong to the Payment guard and are not repeated here.
type PaymentIntent struct {
	TenantID       string            `validate:"required,max=64"`
	Amount         decimal.Decimal   `validate:"-"`
	Currency       string            `validate:"required"`
	Method         string            `validate:"required,max=32"`
	MethodToken    string            `validate:"max=512"`
	PayerEmail     string            `validate:"omitempty,email"`
	Description    string            `validate:"max=256"`
	IdempotencyKey string            `validate:"max=255"`
	Metadata       map[string]string `validate:"max=20,dive,keys,required,max=64,endkeys,max=512"`
}
