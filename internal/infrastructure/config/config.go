package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config is the process configuration. Values come from environment variables,
// optionally layered over the file named by CONFIG_FILE.
type Config struct {
	ServiceName string
	Env         string
	HTTPPort    string

	StorageBackend     string
	IdempotencyBackend string

	AWS      AWSConfig
	Tables   TableConfig
	Redis    RedisConfig
	VaultKey string

	Gateway     GatewayConfig
	Idempotency IdempotencyConfig

	AdminToken string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	DynamoEndpoint  string
}

type TableConfig struct {
	Payments    string
	Credentials string
	Idempotency string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GatewayConfig struct {
	Timeout           time.Duration
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	CredentialTimeout time.Duration
	SandboxEnabled    bool
	SandboxLatency    time.Duration
	BreakerFailures   int
	BreakerOpen       time.Duration

	// MercadoPagoMethods are the payment methods routed to Mercado Pago.
	MercadoPagoMethods []string
	// SandboxMethods are taken over by the sandbox when it is enabled.
	SandboxMethods []string
}

type IdempotencyConfig struct {
	TTL  time.Duration
	Wait time.Duration
	Poll time.Duration
}

var defaults = map[string]any{
	"SERVICE_NAME":            "ozpay",
	"ENV":                     "dev",
	"HTTP_PORT":               "8080",
	"STORAGE_BACKEND":         BackendDynamoDB,
	"IDEMPOTENCY_BACKEND":     BackendDynamoDB,
	"AWS_REGION":              "us-east-1",
	"AWS_ACCESS_KEY_ID":       "local",
	"AWS_SECRET_ACCESS_KEY":   "local",
	"DYNAMODB_ENDPOINT":       "",
	"PAYMENTS_TABLE":          "payments",
	"CREDENTIALS_TABLE":       "gateway_credentials",
	"IDEMPOTENCY_TABLE":       "idempotency_keys",
	"REDIS_ADDR":              "localhost:6379",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL":         "24h",
	"VAULT_KEY":               "",
	"GATEWAY_TIMEOUT":         "5s",
	"GATEWAY_MAX_ATTEMPTS":    3,
	"GATEWAY_BACKOFF_BASE":    "200ms",
	"GATEWAY_BACKOFF_MAX":     "2s",
	"CREDENTIAL_TIMEOUT":      "2s",
	"IDEMPOTENCY_WAIT":        "10s",
	"IDEMPOTENCY_POLL":        "100ms",
	"GATEWAY_SANDBOX_ENABLED": false,
	"GATEWAY_SANDBOX_LATENCY": "300ms",
	"BREAKER_MAX_FAILURES":    5,
	"BREAKER_OPEN_TIMEOUT":    "30s",
	"MERCADOPAGO_METHODS":     "card,pix",
	"GATEWAY_SANDBOX_METHODS": "card,pix,boleto",
	"ADMIN_TOKEN":             "",
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		ServiceName:        v.GetString("SERVICE_NAME"),
		Env:                v.GetString("ENV"),
		HTTPPort:           v.GetString("HTTP_PORT"),
		StorageBackend:     strings.ToLower(v.GetString("STORAGE_BACKEND")),
		IdempotencyBackend: strings.ToLower(v.GetString("IDEMPOTENCY_BACKEND")),
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			DynamoEndpoint:  v.GetString("DYNAMODB_ENDPOINT"),
		},
		Tables: TableConfig{
			Payments:    v.GetString("PAYMENTS_TABLE"),
			Credentials: v.GetString("CREDENTIALS_TABLE"),
			Idempotency: v.GetString("IDEMPOTENCY_TABLE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		VaultKey: v.GetString("VAULT_KEY"),
		Gateway: GatewayConfig{
			Timeout:           v.GetDuration("GATEWAY_TIMEOUT"),
			MaxAttempts:       v.GetInt("GATEWAY_MAX_ATTEMPTS"),
			BackoffBase:       v.GetDuration("GATEWAY_BACKOFF_BASE"),
			BackoffMax:        v.GetDuration("GATEWAY_BACKOFF_MAX"),
			CredentialTimeout: v.GetDuration("CREDENTIAL_TIMEOUT"),
			SandboxEnabled:    v.GetBool("GATEWAY_SANDBOX_ENABLED"),
			SandboxLatency:    v.GetDuration("GATEWAY_SANDBOX_LATENCY"),
			BreakerFailures:   v.GetInt("BREAKER_MAX_FAILURES"),
			BreakerOpen:       v.GetDuration("BREAKER_OPEN_TIMEOUT"),

			MercadoPagoMethods: splitList(v.GetString("MERCADOPAGO_METHODS")),
			SandboxMethods:     splitList(v.GetString("GATEWAY_SANDBOX_METHODS")),
		},
		Idempotency: IdempotencyConfig{
			TTL:  v.GetDuration("IDEMPOTENCY_TTL"),
			Wait: v.GetDuration("IDEMPOTENCY_WAIT"),
			Poll: v.GetDuration("IDEMPOTENCY_POLL"),
		},
		AdminToken: v.GetString("ADMIN_TOKEN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendDynamoDB, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be dynamodb or memory, got %q", c.StorageBackend))
	}
	switch c.IdempotencyBackend {
	case BackendDynamoDB, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("IDEMPOTENCY_BACKEND must be dynamodb, redis or memory, got %q", c.IdempotencyBackend))
	}
	if c.StorageBackend == BackendMemory && c.IdempotencyBackend == BackendDynamoDB {
		errs = append(errs, errors.New("IDEMPOTENCY_BACKEND=dynamodb requires STORAGE_BACKEND=dynamodb"))
	}
	if c.Gateway.MaxAttempts < 1 {
		errs = append(errs, errors.New("GATEWAY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Gateway.Timeout <= 0 {
		errs = append(errs, errors.New("GATEWAY_TIMEOUT must be positive"))
	}
	if c.Gateway.BreakerFailures < 1 {
		errs = append(errs, errors.New("BREAKER_MAX_FAILURES must be at least 1"))
	}
	if strings.TrimSpace(c.HTTPPort) == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sanitized is safe to log: secrets are reduced to whether they are set.
func (c *Config) Sanitized() map[string]any {
	return map[string]any{
		"service":             c.ServiceName,
		"env":                 c.Env,
		"http_port":           c.HTTPPort,
		"storage_backend":     c.StorageBackend,
		"idempotency_backend": c.IdempotencyBackend,
		"aws_region":          c.AWS.Region,
		"dynamodb_endpoint":   c.AWS.DynamoEndpoint,
		"redis_addr":          c.Redis.Addr,
		"vault_key_set":       c.VaultKey != "",
		"admin_token_set":     c.AdminToken != "",
		"sandbox_enabled":     c.Gateway.SandboxEnabled,
		"gateway_timeout":     c.Gateway.Timeout.String(),
		"max_attempts":        c.Gateway.MaxAttempts,
		"mercadopago_methods": c.Gateway.MercadoPagoMethods,
		"sandbox_methods":     c.Gateway.SandboxMethods,
	}
}
