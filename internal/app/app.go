package app

import (
	"context"
	"fmt"

	"ozpay/internal/adapter/http/routes"
	"ozpay/internal/infrastructure/config"
	"ozpay/internal/infrastructure/metrics"
	"ozpay/internal/infrastructure/validation"
	"ozpay/internal/infrastructure/vault"
	"ozpay/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App is the fully wired service.
type App struct {
	Config      *config.Config
	Stores      *Stores
	Vault       *vault.Vault
	Gateways    *usecase.GatewayRegistry
	Payments    *usecase.PaymentUseCase
	Credentials *usecase.CredentialUseCase
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
	Router      *gin.Engine
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	v, err := OpenVault(cfg, log)
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gateways, err := NewGatewayRegistry(cfg.Gateway, log, m.BreakerStateChanged)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	payments := usecase.NewPaymentUseCase(usecase.PaymentDeps{
		Payments:    stores.Payments,
		Idempotency: stores.Idempotency,
		Credentials: stores.Credentials,
		Vault:       v,
		Gateways:    gateways,
		Validator:   validation.NewPaymentValidator(),
		Metrics:     m,
		Logger:      log,
	}, RetryPolicy(cfg))
	credentials := usecase.NewCredentialUseCase(stores.Credentials, v, log)

	router := routes.NewRouter(routes.Dependencies{
		Payments:    payments,
		Credentials: credentials,
		AdminToken:  cfg.AdminToken,
		Logger:      log,
		Metrics:     m,
		Gatherer:    reg,
	})

	return &App{
		Config:      cfg,
		Stores:      stores,
		Vault:       v,
		Gateways:    gateways,
		Payments:    payments,
		Credentials: credentials,
		Metrics:     m,
		Registry:    reg,
		Router:      router,
	}, nil
}

// OpenVault builds the credential vault from VAULT_KEY. The in-memory
// backend falls back to an ephemeral key since nothing it seals outlives
// the process.
func OpenVault(cfg *config.Config, log *zap.Logger) (*vault.Vault, error) {
	if cfg.VaultKey == "" && cfg.StorageBackend == config.BackendMemory {
		key, err := vault.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate ephemeral vault key: %w", err)
		}
		log.Warn("vault_ephemeral_key")
		return vault.NewFromBase64(key)
	}
	v, err := vault.NewFromBase64(cfg.VaultKey)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return v, nil
}

func (a *App) Close() error {
	return a.Stores.Close()
}
