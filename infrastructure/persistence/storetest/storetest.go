// Package storetest holds the conformance suite every ports.KeyValueStore must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtree-backend/application/ports"
)

// Run exercises the KeyValueStore contract against store.
func Run(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "nobody", "tech-tree-chat-history")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "s1", "k", "first"))
		require.NoError(t, store.Put(ctx, "s1", "k", "second"))

		got, err := store.Get(ctx, "s1", "k")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "s2", "k", "mine"))
		require.NoError(t, store.Put(ctx, "s3", "k", "theirs"))

		got, err := store.Get(ctx, "s2", "k")
		require.NoError(t, err)
		assert.Equal(t, "mine", got)
	})

	t.Run("delete removes only named keys", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "s4", "history", "[]"))
		require.NoError(t, store.Put(ctx, "s4", "scroll", "12"))
		require.NoError(t, store.Put(ctx, "s4", "other", "x"))

		require.NoError(t, store.Delete(ctx, "s4", "history", "scroll", "never-written"))

		_, err := store.Get(ctx, "s4", "history")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)
		_, err = store.Get(ctx, "s4", "scroll")
		assert.ErrorIs(t, err, ports.ErrKeyNotFound)
		got, err := store.Get(ctx, "s4", "other")
		require.NoError(t, err)
		assert.Equal(t, "x", got)
	})

	t.Run("delete without keys", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "s5"))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.Put(ctx, fmt.Sprintf("c%d", i), "k", "v"))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			got, err := store.Get(ctx, fmt.Sprintf("c%d", i), "k")
			require.NoError(t, err)
			assert.Equal(t, "v", got)
		}
	})
}
