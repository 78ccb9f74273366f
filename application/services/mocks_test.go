package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"techtree-backend/application/ports"
	"techtree-backend/domain/core/valueobjects"
	"techtree-backend/domain/events"
)

// MockLayouter is a mock implementation of ports.Layouter
type MockLayouter struct {
	mock.Mock
}

func (m *MockLayouter) Layout(ctx context.Context, req ports.LayoutRequest) (map[string]valueobjects.Position, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]valueobjects.Position), args.Error(1)
}

// gridLayouter places nodes left to right on one row.
type gridLayouter struct{}

func (gridLayouter) Layout(_ context.Context, req ports.LayoutRequest) (map[string]valueobjects.Position, error) {
	out := make(map[string]valueobjects.Position, len(req.Nodes))
	for i, n := range req.Nodes {
		out[n.ID] = valueobjects.Position{X: n.Size.Width/2 + float64(i)*200, Y: n.Size.Height / 2}
	}
	return out, nil
}

// MockGenerator is a mock implementation of ports.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Model() string {
	return "test-model"
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// memoryStore is a minimal ports.KeyValueStore for service tests.
type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[sessionID+"/"+key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *memoryStore) Put(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID+"/"+key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, sessionID+"/"+k)
	}
	return nil
}
