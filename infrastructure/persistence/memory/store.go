// Package memory is an in-process ports.KeyValueStore for development and tests.
package memory

import (
	"context"
	"sync"

	"techtree-backend/application/ports"
)

type entryKey struct {
	session string
	key     string
}

// Store keeps transcript entries in a map. Contents are lost on restart.
type Store struct {
	mu   sync.RWMutex
	data map[entryKey]string
}

var _ ports.KeyValueStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[entryKey]string)}
}

func (s *Store) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[entryKey{sessionID, key}]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *Store) Put(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entryKey{sessionID, key}] = value
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, entryKey{sessionID, k})
	}
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
