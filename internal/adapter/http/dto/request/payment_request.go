package request

import (
	"strings"

	"ozpay/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the payload of POST /v1/payments.
//
// `amount` accepts a JSON number or a decimal string; `idempotency_key` is
// overridden by the Idempotency-Key header when both are sent.

type CreatePaymentRequest struct {
	TenantID       string            `json:"tenant_id" example:"tenant-1"`
	Amount         decimal.Decimal   `json:"amount" swaggertype:"string" example:"150.00"`
	Currency       string            `json:"currency" example:"BRL"`
	Method         string            `json:"method" example:"pix"`
	MethodToken    string            `json:"method_token,omitempty" example:"ff8080814c11e237014c1ff593b57b4d"`
	Customer       *CustomerRequest  `json:"customer,omitempty"`
	Description    string            `json:"description,omitempty" example:"Order 1234"`
	IdempotencyKey string            `json:"idempotency_key,omitempty" example:"order-1234"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type CustomerRequest struct {
	Email string `json:"email" example:"payer@example.com"`
}

func (r CreatePaymentRequest) ToIntent(headerKey string) entities.PaymentIntent {
	intent := entities.PaymentIntent{
		TenantID:       strings.TrimSpace(r.TenantID),
		Amount:         r.Amount,
		Currency:       strings.TrimSpace(r.Currency),
		Method:         strings.TrimSpace(r.Method),
		MethodToken:    r.MethodToken,
		Description:    r.Description,
		IdempotencyKey: strings.TrimSpace(r.IdempotencyKey),
		Metadata:       r.Metadata,
	}
	if r.Customer != nil {
		intent.PayerEmail = strings.TrimSpace(r.Customer.Email)
	}
	if k := strings.TrimSpace(headerKey); k != "" {
		intent.IdempotencyKey = k
	}
	return intent
}
