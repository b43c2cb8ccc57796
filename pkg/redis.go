package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the checkpoint store and fails fast when it is unreachable
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}
