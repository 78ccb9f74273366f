package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration moves the schema from version To-1 to To.
type Migration struct {
	To          int
	Description string
	Up          string
}

// migrations must stay ordered by To, starting at 1 without gaps.
var migrations = []Migration{
	{
		To:          1,
		Description: "create chat_kv",
		Up: `CREATE TABLE IF NOT EXISTS chat_kv (
	session_id TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, key)
)`,
	},
	{
		To:          2,
		Description: "index chat_kv by update time",
		Up:          `CREATE INDEX IF NOT EXISTS idx_chat_kv_updated_at ON chat_kv (updated_at)`,
	},
}

// LatestVersion is the schema version Open migrates to.
func LatestVersion() int {
	return migrations[len(migrations)-1].To
}

// SchemaVersion reports the version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return userVersion(ctx, s.db)
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// migrate applies every migration above the stored version, each in its own
// transaction together with the version bump.
func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	current, err := userVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > LatestVersion() {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, LatestVersion())
	}

	for _, m := range migrations {
		if m.To <= current {
			continue
		}
		if m.To != current+1 {
			return fmt.Errorf("no migration found from version %d to %d", current, current+1)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migration %d->%d: %w", current, m.To, err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d->%d failed: %w", current, m.To, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, m.To)); err != nil {
			tx.Rollback()
			return fmt.Errorf("record schema version %d: %w", m.To, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d->%d: %w", current, m.To, err)
		}

		logger.Info("Applied schema migration",
			zap.Int("version", m.To),
			zap.String("description", m.Description),
		)
		current = m.To
	}
	return nil
}
