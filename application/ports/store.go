package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for missing keys.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore persists small string values per chat session.
// Values are overwritten whole; there is no schema versioning.
type KeyValueStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Put(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// SessionLocker serializes transcript read-modify-write across processes.
// The in-process lock in the chat service always applies; a SessionLocker
// adds a second, shared lock for multi-instance deployments.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}
