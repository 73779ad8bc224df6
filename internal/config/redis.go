package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedis connects to Redis and waits for PING to succeed.
func NewRedis(ctx context.Context, cfg RedisConfig, retryFor time.Duration, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry(ctx, logger, "redis", retryFor, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info("✅ Connected to Redis", zap.String("addr", cfg.Addr))
	return client, nil
}
