package app

import (
	"context"
	"errors"
	"fmt"

	"ozpay/internal/adapter/persistence/memory"
	"ozpay/internal/adapter/persistence/repository"
	"ozpay/internal/infrastructure/config"
	"ozpay/internal/infrastructure/database"
	"ozpay/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// Stores groups the persistence ports selected by STORAGE_BACKEND and
// IDEMPOTENCY_BACKEND.
type Stores struct {
	Payments    interfaces.IPaymentRepository
	Credentials interfaces.ICredentialRepository
	Idempotency interfaces.IIdempotencyStore

	closers []func() error
}

func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	s := &Stores{}

	var mem *memory.Store
	switch cfg.StorageBackend {
	case config.BackendMemory:
		mem = memory.NewStore()
		s.Payments = mem
		s.Credentials = mem
		log.Warn("storage_backend_memory", zap.String("hint", "payments and credentials are lost on restart"))
	case config.BackendDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		s.Payments = repository.NewPaymentDynamoRepository(ddb, cfg.Tables.Payments)
		s.Credentials = repository.NewCredentialDynamoRepository(ddb, cfg.Tables.Credentials)
		if cfg.IdempotencyBackend == config.BackendDynamoDB {
			s.Idempotency = repository.NewIdempotencyDynamoRepository(ddb, cfg.Tables.Idempotency, cfg.Idempotency.TTL)
		}
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	switch cfg.IdempotencyBackend {
	case config.BackendDynamoDB:
		if s.Idempotency == nil {
			return nil, errors.New("idempotency backend dynamodb requires storage backend dynamodb")
		}
	case config.BackendRedis:
		client, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		s.Idempotency = repository.NewRedisIdempotencyStore(client, cfg.Idempotency.TTL)
	case config.BackendMemory:
		if mem == nil {
			mem = memory.NewStore()
		}
		s.Idempotency = mem
	default:
		return nil, fmt.Errorf("unsupported idempotency backend %q", cfg.IdempotencyBackend)
	}

	log.Info("stores_ready",
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("idempotency_backend", cfg.IdempotencyBackend),
	)
	return s, nil
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
