package pkg

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.DedupConfig{RedisURL: "not-a-url://"})
	assert.Error(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.DedupConfig{RedisURL: "redis://127.0.0.1:1/0"})
	assert.Error(t, err)
}
