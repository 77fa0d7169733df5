package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_ConnectionErrorsAreReturned(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	set, err := c.SetIfAbsent(context.Background(), "placement:k", time.Minute)
	assert.Error(t, err)
	assert.False(t, set)

	assert.Error(t, c.Delete(context.Background(), "placement:k"))
}
