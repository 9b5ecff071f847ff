package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ozpay/internal/domain/entities"
	"ozpay/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "idem:"

// releaseScript deletes the key only when it still holds the caller's payment.
var releaseScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then return 0 end
local ok, r = pcall(cjson.decode, v)
if ok and r["payment_id"] == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisReservation struct {
	PaymentID   string    `json:"payment_id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// RedisIdempotencyStore keeps reservations in Redis with SET NX and a TTL.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ interfaces.IIdempotencyStore = (*RedisIdempotencyStore)(nil)

func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, r entities.IdempotencyReservation) (bool, error) {
	b, err := json.Marshal(redisReservation{PaymentID: r.PaymentID, Fingerprint: r.Fingerprint, CreatedAt: r.CreatedAt})
	if err != nil {
		return false, err
	}
	set, err := s.client.SetNX(ctx, redisKeyPrefix+r.Key, b, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX error: %w", err)
	}
	return set, nil
}

func (s *RedisIdempotencyStore) Find(ctx context.Context, key string) (entities.IdempotencyReservation, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.IdempotencyReservation{}, false, nil
	}
	if err != nil {
		return entities.IdempotencyReservation{}, false, fmt.Errorf("redis GET error: %w", err)
	}
	var r redisReservation
	if err := json.Unmarshal(raw, &r); err != nil {
		return entities.IdempotencyReservation{}, false, fmt.Errorf("decode reservation: %w", err)
	}
	return entities.IdempotencyReservation{
		Key:         key,
		PaymentID:   r.PaymentID,
		Fingerprint: r.Fingerprint,
		CreatedAt:   r.CreatedAt,
	}, true, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key, paymentID string) error {
	if err := releaseScript.Run(ctx, s.client, []string{redisKeyPrefix + key}, paymentID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis release error: %w", err)
	}
	return nil
}
