package interfaces

import (
	"context"
	"errors"

	"ozpay/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// ErrGatewayPermanent marks gateway errors that retrying cannot fix
// (rejected request, unauthorized credentials).
var ErrGatewayPermanent = errors.New("payment gateway rejected the request")

// GatewaySubmission is everything a gateway needs for one attempt.
type GatewaySubmission struct {
	PaymentID      string
	TenantID       string
	Amount         decimal.Decimal
	Currency       string
	Method         string
	MethodToken    string
	PayerEmail     string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
	Credentials    entities.CredentialSet
}

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// Submit never touches the Payment aggregate; it only reports an outcome.
// Calling it twice with the same IdempotencyKey must not charge twice.
type IPaymentGateway interface {
	Name() string
	Submit(ctx context.Context, s GatewaySubmission) (entities.GatewayOutcome, error)
}
