package statestore

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Compile-time interface guard.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists state in a SQLite database, one row per
// (instance, agent) pair. It honors the same soft-failure contract as
// FileStore.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// state schema exists.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite requires SQL statements, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS agent_state (
			instance TEXT NOT NULL,
			name     TEXT NOT NULL,
			status   TEXT NOT NULL,
			PRIMARY KEY (instance, name)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create agent_state table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the persisted mapping for instanceKey. Query failures yield an
// empty map; rows with unexpected status values are skipped.
func (s *SQLiteStore) Load(ctx context.Context, instanceKey string) map[string]SimpleStatus {
	state := make(map[string]SimpleStatus)

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, status FROM agent_state WHERE instance = ?", instanceKey)
	if err != nil {
		s.logger.Debug("failed to load state", zap.String("instance", instanceKey), zap.Error(err))
		return state
	}
	defer rows.Close()

	for rows.Next() {
		var name, status string
		if err := rows.Scan(&name, &status); err != nil {
			s.logger.Debug("failed to scan state row", zap.Error(err))
			continue
		}
		if !SimpleStatus(status).valid() {
			s.logger.Debug("skipping malformed state row", zap.String("name", name), zap.String("status", status))
			continue
		}
		state[name] = SimpleStatus(status)
	}
	if err := rows.Err(); err != nil {
		s.logger.Debug("state row iteration failed", zap.Error(err))
	}
	return state
}

// Save replaces all rows for instanceKey within one transaction.
func (s *SQLiteStore) Save(ctx context.Context, instanceKey string, state map[string]SimpleStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Debug("failed to begin state tx", zap.Error(err))
		return fmt.Errorf("begin tx: %w", err)
	}

	save := func() error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM agent_state WHERE instance = ?", instanceKey); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		for name, status := range state {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO agent_state (instance, name, status) VALUES (?, ?, ?)",
				instanceKey, name, string(status)); err != nil {
				return fmt.Errorf("insert state %q: %w", name, err)
			}
		}
		return nil
	}

	if err := save(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Debug("state rollback failed", zap.Error(rbErr))
		}
		s.logger.Debug("failed to save state", zap.String("instance", instanceKey), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Debug("failed to commit state", zap.String("instance", instanceKey), zap.Error(err))
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}
