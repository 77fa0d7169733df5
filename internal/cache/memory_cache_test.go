package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	set, err := c.SetIfAbsent(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = c.SetIfAbsent(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, set)

	now = now.Add(2 * time.Minute)
	set, err = c.SetIfAbsent(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, set, "expired key is claimable again")
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.SetIfAbsent(ctx, "k", 0)
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "k"))

	set, err := c.SetIfAbsent(ctx, "k", 0)
	require.NoError(t, err)
	assert.True(t, set)
}
