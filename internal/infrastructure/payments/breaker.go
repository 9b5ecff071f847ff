package payments

import (
	"context"
	"errors"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var errTransientOutcome = errors.New("gateway reported a transient failure")

type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerGateway short-circuits a gateway after consecutive transient
// failures. Declines and permanent rejections do not count against it.
type BreakerGateway struct {
	inner interfaces.IPaymentGateway
	cb    *gobreaker.CircuitBreaker
	log   *zap.Logger
}

var _ interfaces.IPaymentGateway = (*BreakerGateway)(nil)

// NewBreakerGateway wraps inner. onStateChange may be nil.
func NewBreakerGateway(inner interfaces.IPaymentGateway, s BreakerSettings, log *zap.Logger, onStateChange func(gateway, state string)) *BreakerGateway {
	if log == nil {
		log = zap.NewNop()
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	log = log.With(zap.String("component", "gateway_breaker"), zap.String("gateway", inner.Name()))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, interfaces.ErrGatewayPermanent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("gateway_breaker_state_change", zap.String("from", from.String()), zap.String("to", to.String()))
			if onStateChange != nil {
				onStateChange(name, to.String())
			}
		},
	})
	return &BreakerGateway{inner: inner, cb: cb, log: log}
}

func (b *BreakerGateway) Name() string { return b.inner.Name() }

func (b *BreakerGateway) State() string { return b.cb.State().String() }

func (b *BreakerGateway) Submit(ctx context.Context, s interfaces.GatewaySubmission) (entities.GatewayOutcome, error) {
	var outcome entities.GatewayOutcome
	_, err := b.cb.Execute(func() (interface{}, error) {
		out, err := b.inner.Submit(ctx, s)
		if err != nil {
			return nil, err
		}
		outcome = out
		if out.Kind == entities.OutcomeTransientFailure {
			return nil, errTransientOutcome
		}
		return nil, nil
	})

	switch {
	case err == nil:
		return outcome, nil
	case errors.Is(err, errTransientOutcome):
		return outcome, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		b.log.Info("gateway_breaker_rejected", zap.String("payment_id", s.PaymentID), zap.Error(err))
		return entities.TransientFailure(0), nil
	}
	return entities.GatewayOutcome{}, err
}
