package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_Expiry(t *testing.T) {
	// Arrange
	c := NewInMemoryCache(0)
	defer c.Close()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	// Act
	require.NoError(t, c.Set(ctx, "view", "v1", 30))

	// Assert
	got, ok := c.Get(ctx, "view")
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	now = now.Add(31 * time.Second)
	_, ok = c.Get(ctx, "view")
	assert.False(t, ok)
}

func TestInMemoryCache_Bounded(t *testing.T) {
	c := NewInMemoryCache(3)
	defer c.Close()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, 60))
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "k0")
	assert.False(t, ok, "earliest-expiring entry should be evicted first")
	_, ok = c.Get(ctx, "k4")
	assert.True(t, ok)
}

func TestInMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewInMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 60))
	require.NoError(t, c.Set(ctx, "b", 2, 60))
	require.NoError(t, c.Delete(ctx, "a"))
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())
	c.Close()
}
