package database

import (
	"context"
	"fmt"
	"time"

	"ozpay/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates a client and checks the connection.
func ConnectRedis(ctx context.Context, c config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", c.Addr, err)
	}
	return client, nil
}
