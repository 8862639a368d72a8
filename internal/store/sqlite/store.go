package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/migration"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/migrations"
)

// Store is a keyed store backend on a sqlite file. Other processes' commits
// are detected by polling PRAGMA data_version on a dedicated connection.
type Store struct {
	path         string
	pollInterval time.Duration
	origin       string
	db           *sql.DB
}

var _ store.Backend = (*Store)(nil)
var _ store.Historian = (*Store)(nil)

func NewStore(path string, pollInterval time.Duration) *Store {
	if pollInterval <= 0 {
		pollInterval = constants.DefaultPollInterval
	}
	return &Store{
		path:         path,
		pollInterval: pollInterval,
		origin:       uuid.NewString(),
	}
}

func (s *Store) dsn() string {
	return s.path + "?_pragma=busy_timeout(5000)"
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and checks its schema version.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'chronos init' first")
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runMigrations() error {
	subFS, err := migrations.SQLite()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := migrations.SQLite()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// GetConfigPath returns the database file path.
func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = ? AND deleted_at IS NULL", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rev, err := nextRev(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO kv_history (key, rev, value, replaced_at)
		SELECT key, rev, value, ? FROM kv WHERE key = ? AND deleted_at IS NULL`,
		now, key); err != nil {
		return fmt.Errorf("failed to record history for %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, rev, origin, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, NULL)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			rev = excluded.rev,
			origin = excluded.origin,
			updated_at = excluded.updated_at,
			deleted_at = NULL`,
		key, string(value), rev, s.origin, now); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return tx.Commit()
}

// Delete soft-deletes the key so watchers in other processes observe it.
func (s *Store) Delete(ctx context.Context, key string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rev, err := nextRev(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE kv SET deleted_at = ?, rev = ?, origin = ?, updated_at = ?
		WHERE key = ? AND deleted_at IS NULL`,
		now, rev, s.origin, now, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return tx.Commit()
}

func nextRev(ctx context.Context, tx *sql.Tx) (int64, error) {
	var rev int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(rev), 0) + 1 FROM kv").Scan(&rev); err != nil {
		return 0, fmt.Errorf("failed to allocate revision: %w", err)
	}
	return rev, nil
}

// Watch polls data_version on a pinned connection. The version only changes
// when a different connection commits, so the poll itself is cheap.
func (s *Store) Watch(ctx context.Context, onChange func(key string)) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to pin watch connection: %w", err)
	}

	version, err := dataVersion(ctx, conn)
	if err != nil {
		conn.Close()
		return err
	}

	var lastRev int64
	if err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(rev), 0) FROM kv").Scan(&lastRev); err != nil {
		conn.Close()
		return fmt.Errorf("failed to read revision: %w", err)
	}

	go func() {
		defer conn.Close()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			v, err := dataVersion(ctx, conn)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("sqlite watch poll failed", "error", err)
				}
				continue
			}
			if v == version {
				continue
			}
			version = v

			changed, maxRev, err := s.changedSince(ctx, conn, lastRev)
			if err != nil {
				logger.Warn("sqlite watch scan failed", "error", err)
				continue
			}
			lastRev = maxRev
			for _, key := range changed {
				onChange(key)
			}
		}
	}()

	return nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return v, nil
}

// changedSince returns keys written by other origins after rev.
func (s *Store) changedSince(ctx context.Context, conn *sql.Conn, rev int64) ([]string, int64, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT key, rev, origin FROM kv WHERE rev > ? ORDER BY rev", rev)
	if err != nil {
		return nil, rev, err
	}
	defer rows.Close()

	maxRev := rev
	var keys []string
	for rows.Next() {
		var key, origin string
		var r int64
		if err := rows.Scan(&key, &r, &origin); err != nil {
			return nil, rev, err
		}
		if r > maxRev {
			maxRev = r
		}
		if origin != s.origin {
			keys = append(keys, key)
		}
	}
	return keys, maxRev, rows.Err()
}

// History returns up to limit superseded values of key, newest first.
func (s *Store) History(ctx context.Context, key string, limit int) ([]store.Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rev, value, replaced_at FROM kv_history
		WHERE key = ? ORDER BY rev DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Revision
	for rows.Next() {
		var r store.Revision
		var value, replacedAt string
		if err := rows.Scan(&r.Rev, &value, &replacedAt); err != nil {
			return nil, err
		}
		r.Value = []byte(value)
		if t, err := time.Parse(time.RFC3339, replacedAt); err == nil {
			r.ReplacedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Keys lists live keys with their last update time.
func (s *Store) Keys(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, updated_at FROM kv WHERE deleted_at IS NULL ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, u string
		if err := rows.Scan(&k, &u); err != nil {
			return nil, err
		}
		out[k] = u
	}
	return out, rows.Err()
}
