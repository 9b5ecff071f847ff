package payments

import (
	"context"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const SandboxName = "sandbox"

var (
	// SandboxTransientAmount always answers with a transient failure.
	SandboxTransientAmount = decimal.RequireFromString("99.99")
	// SandboxDeclineAmount always answers with a decline.
	SandboxDeclineAmount = decimal.RequireFromString("66.66")
)

// SandboxGateway approves everything after a fixed latency, except for the
// sentinel amounts above. References are "sk_" + uuid.
type SandboxGateway struct {
	latency time.Duration
}

var _ interfaces.IPaymentGateway = (*SandboxGateway)(nil)

func NewSandboxGateway(latency time.Duration) *SandboxGateway {
	return &SandboxGateway{latency: latency}
}

func (g *SandboxGateway) Name() string { return SandboxName }

func (g *SandboxGateway) Submit(ctx context.Context, s interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
	if g.latency > 0 {
		select {
		case <-ctx.Done():
			return entities.GatewayOutcome{}, ctx.Err()
		case <-time.After(g.latency):
		}
	}

	switch {
	case s.Amount.Equal(SandboxTransientAmount):
		return entities.TransientFailure(0), nil
	case s.Amount.Equal(SandboxDeclineAmount):
		return entities.Declined("sk_"+uuid.NewString(), "do_not_honor"), nil
	}
	return entities.Approved("sk_" + uuid.NewString()), nil
}
