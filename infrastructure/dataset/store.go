package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/config"
	"techtree-backend/domain/core/aggregates"
	"techtree-backend/domain/events"
	"techtree-backend/pkg/observability"
)

// Store holds the active dataset snapshot and swaps it on reload.
// Readers never block; a failed reload leaves the previous snapshot active.
type Store struct {
	path      string
	cfg       *config.DomainConfig
	current   atomic.Pointer[aggregates.TechTree]
	revision  atomic.Uint64
	reloadMu  sync.Mutex
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

var (
	_ ports.TechTreeSource = (*Store)(nil)
	_ ports.TreeReloader   = (*Store)(nil)
)

// NewStore loads the initial snapshot. An empty path selects the embedded dataset.
func NewStore(path string, cfg *config.DomainConfig, publisher ports.EventPublisher, metrics *observability.Collector, logger *zap.Logger) (*Store, error) {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	s := &Store{
		path:      path,
		cfg:       cfg,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
	tree, err := s.load()
	if err != nil {
		return nil, err
	}
	s.activate(tree)
	logger.Info("Dataset loaded",
		zap.String("source", s.sourceName()),
		zap.Int("nodes", len(tree.Nodes())),
		zap.Int("edges", len(tree.Edges())),
	)
	return s, nil
}

// Current returns the active snapshot.
func (s *Store) Current() *aggregates.TechTree {
	return s.current.Load()
}

// Path returns the watched file, or "" for the embedded dataset.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the dataset and activates it under a new revision.
func (s *Store) Reload(ctx context.Context) (*aggregates.TechTree, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	tree, err := s.load()
	if err != nil {
		s.metrics.RecordDatasetReload(observability.StatusFailure, s.revision.Load())
		s.logger.Error("Dataset reload failed, keeping current snapshot",
			zap.String("source", s.sourceName()),
			zap.Uint64("revision", s.revision.Load()),
			zap.Error(err),
		)
		return nil, err
	}

	active := s.activate(tree)
	s.metrics.RecordDatasetReload(observability.StatusSuccess, active.Revision())
	s.logger.Info("Dataset reloaded",
		zap.String("source", active.Source()),
		zap.Uint64("revision", active.Revision()),
		zap.Int("nodes", len(active.Nodes())),
		zap.Int("edges", len(active.Edges())),
	)

	evt := events.NewTreeReloaded(active.Revision(), len(active.Nodes()), len(active.Edges()), active.Source(), time.Now().UTC())
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish reload event", zap.Error(err))
	}
	return active, nil
}

func (s *Store) activate(tree *aggregates.TechTree) *aggregates.TechTree {
	stamped := tree.WithRevision(s.revision.Add(1), s.sourceName())
	s.current.Store(stamped)
	return stamped
}

func (s *Store) load() (*aggregates.TechTree, error) {
	if s.path == "" {
		return LoadEmbedded(s.cfg)
	}
	return LoadFile(s.path, s.cfg)
}

func (s *Store) sourceName() string {
	if s.path == "" {
		return EmbeddedSourceName
	}
	return s.path
}
