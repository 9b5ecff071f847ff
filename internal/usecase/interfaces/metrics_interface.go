package interfaces

import "time"

// IPaymentMetrics records orchestration outcomes.
type IPaymentMetrics interface {
	PaymentProcessed(method, status string, d time.Duration)
	GatewayCall(gateway, outcome string, d time.Duration)
	CredentialFailure(reason string)
	DuplicateRequest(outcome string)
}
