package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the dedup store and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.DedupConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}
