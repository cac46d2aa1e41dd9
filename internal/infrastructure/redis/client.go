package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/config"
)

// NewClient creates a Redis client.
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	return nil
}
