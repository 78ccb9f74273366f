package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/infrastructure/persistence/storetest"
)

func TestStore_InMemory(t *testing.T) {
	store, err := Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storetest.Run(t, store)
}

func TestStore_SurvivesReopen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.db")
	store, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "s1", "tech-tree-chat-scroll", "42"))
	require.NoError(t, store.Close())

	// Act
	reopened, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	got, err := reopened.Get(ctx, "s1", "tech-tree-chat-scroll")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestStore_MigratesToLatestVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.db")

	store, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), version)
	require.NoError(t, store.Close())

	// Reopening an up-to-date database is a no-op.
	reopened, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	version, err = reopened.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), version)
}

func TestStore_RejectsNewerSchema(t *testing.T) {
	// Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat.db")
	store, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, `PRAGMA user_version = 99`)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Act
	_, err = Open(ctx, path, zap.NewNop())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestStore_PruneBefore(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, err := Open(ctx, ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Put(ctx, "old", "tech-tree-chat-history", "[]"))
	_, err = store.db.ExecContext(ctx, `UPDATE chat_kv SET updated_at = ? WHERE session_id = 'old'`,
		time.Now().Add(-48*time.Hour).UnixMilli())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "fresh", "tech-tree-chat-history", "[]"))

	// Act
	pruned, err := store.PruneBefore(ctx, time.Now().Add(-24*time.Hour))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
	_, err = store.Get(ctx, "old", "tech-tree-chat-history")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	got, err := store.Get(ctx, "fresh", "tech-tree-chat-history")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}
