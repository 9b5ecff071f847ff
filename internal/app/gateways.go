package app

import (
	"ozpay/internal/infrastructure/config"
	"ozpay/internal/infrastructure/payments"
	"ozpay/internal/usecase"

	"go.uber.org/zap"
)

// NewGatewayRegistry registers Mercado Pago under every configured method,
// behind one circuit breaker. When the sandbox is enabled it is registered under
// its own method and takes over SandboxMethods from Mercado Pago.
func NewGatewayRegistry(cfg config.GatewayConfig, log *zap.Logger, onBreakerChange func(gateway, state string)) (*usecase.GatewayRegistry, error) {
	registry := usecase.NewGatewayRegistry()

	sandboxed := map[string]bool{}
	if cfg.SandboxEnabled {
		sandbox := payments.NewSandboxGateway(cfg.SandboxLatency)
		methods := append([]string{payments.SandboxName}, cfg.SandboxMethods...)
		for _, method := range methods {
			if sandboxed[method] {
				continue
			}
			if err := registry.Register(method, sandbox); err != nil {
				return nil, err
			}
			sandboxed[method] = true
		}
		log.Warn("sandbox_gateway_enabled",
			zap.Duration("latency", cfg.SandboxLatency),
			zap.Strings("methods", methods),
		)
	}

	var mpMethods []string
	for _, method := range cfg.MercadoPagoMethods {
		if !sandboxed[method] {
			mpMethods = append(mpMethods, method)
		}
	}
	if len(mpMethods) > 0 {
		mp := payments.NewBreakerGateway(
			payments.NewMercadoPagoGateway(payments.NewMercadoPagoClient, log),
			payments.BreakerSettings{MaxFailures: uint32(cfg.BreakerFailures), OpenTimeout: cfg.BreakerOpen},
			log,
			onBreakerChange,
		)
		for _, method := range mpMethods {
			if err := registry.Register(method, mp); err != nil {
				return nil, err
			}
		}
	}

	log.Info("gateway_registry_ready", zap.Strings("methods", registry.Names()))
	return registry, nil
}

func RetryPolicy(cfg *config.Config) usecase.RetryPolicy {
	p := usecase.DefaultRetryPolicy()
	p.MaxAttempts = cfg.Gateway.MaxAttempts
	p.GatewayTimeout = cfg.Gateway.Timeout
	p.BackoffBase = cfg.Gateway.BackoffBase
	p.BackoffMax = cfg.Gateway.BackoffMax
	p.CredentialTimeout = cfg.Gateway.CredentialTimeout
	p.IdempotencyWait = cfg.Idempotency.Wait
	p.IdempotencyPoll = cfg.Idempotency.Poll
	return p
}
