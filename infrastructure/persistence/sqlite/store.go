// Package sqlite persists chat transcripts in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"techtree-backend/application/ports"
	pkgerrors "techtree-backend/pkg/errors"
)

// Store implements ports.KeyValueStore on modernc.org/sqlite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ ports.KeyValueStore = (*Store)(nil)

// Open opens (or creates) the database at path and migrates its schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// A single connection serializes writers and pins ":memory:" to one database.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite transcript store ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM chat_kv WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", pkgerrors.NewStorageError("get", err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_kv (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return pkgerrors.NewStorageError("put", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, sessionID)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	query := fmt.Sprintf(`DELETE FROM chat_kv WHERE session_id = ? AND key IN (%s)`, placeholders)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pkgerrors.NewStorageError("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("Deleted transcript keys", zap.String("session_id", sessionID), zap.Int64("rows", n))
	}
	return nil
}

// PruneBefore removes transcript keys not written since cutoff.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_kv WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, pkgerrors.NewStorageError("prune", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, pkgerrors.NewStorageError("prune", err)
	}
	return n, nil
}
