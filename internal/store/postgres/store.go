package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/migration"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/migrations"
)

// Store is a keyed store backend on PostgreSQL. Every write sends a
// NOTIFY on the chronos_kv channel with payload "<origin>:<key>".
type Store struct {
	connStr string
	origin  string
	db      *sql.DB
}

var _ store.Backend = (*Store)(nil)
var _ store.Historian = (*Store)(nil)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
		origin:  uuid.NewString(),
	}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style connection string carries key
// (case-insensitive).
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks URL-style and DSN-style connection strings for sslmode.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a usable PostgreSQL connection
// string (URI or DSN) that does not embed a password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
	} else if hasParam(connStr, "password") {
		return false, ErrEmbeddedCredentials
	}

	return true, nil
}

func (s *Store) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to create schema: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	subFS, err := migrations.Postgres()
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunnerWithDialect(s.db, subFS, migration.Postgres).ValidateVersion()
}

func (s *Store) runMigrations() error {
	subFS, err := migrations.Postgres()
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunnerWithDialect(s.db, subFS, migration.Postgres)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value::text FROM kv WHERE key = $1 AND deleted_at IS NULL", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_history (key, rev, value)
		SELECT key, rev, value FROM kv WHERE key = $1 AND deleted_at IS NULL
		ON CONFLICT DO NOTHING`, key); err != nil {
		return fmt.Errorf("failed to record history for %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, rev, origin, updated_at, deleted_at)
		VALUES ($1, $2::jsonb, nextval('kv_rev_seq'), $3, now(), NULL)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			rev = EXCLUDED.rev,
			origin = EXCLUDED.origin,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL`,
		key, string(value), s.origin); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := s.notify(ctx, tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE kv SET deleted_at = now(), rev = nextval('kv_rev_seq'), origin = $2, updated_at = now()
		WHERE key = $1 AND deleted_at IS NULL`, key, s.origin); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	if err := s.notify(ctx, tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

// notify is delivered by the server only when tx commits.
func (s *Store) notify(ctx context.Context, tx *sql.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)",
		constants.PostgresNotifyChannel, encodePayload(s.origin, key)); err != nil {
		return fmt.Errorf("failed to notify change of %s: %w", key, err)
	}
	return nil
}

func encodePayload(origin, key string) string {
	return origin + ":" + key
}

func decodePayload(payload string) (origin, key string, ok bool) {
	origin, key, ok = strings.Cut(payload, ":")
	return origin, key, ok
}

// Watch listens on the change channel. After a reconnect notifications may
// have been missed, so every key is reported as possibly changed.
func (s *Store) Watch(ctx context.Context, onChange func(key string)) error {
	listener := pq.NewListener(s.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Postgres listener event", "event", ev, "error", err)
		}
	})
	if err := listener.Listen(constants.PostgresNotifyChannel); err != nil {
		listener.Close()
		return fmt.Errorf("failed to listen on %s: %w", constants.PostgresNotifyChannel, err)
	}

	go func() {
		defer listener.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					onChange("")
					continue
				}
				origin, key, ok := decodePayload(n.Extra)
				if !ok {
					logger.Warn("Ignoring malformed change notification", "payload", n.Extra)
					continue
				}
				if origin != s.origin {
					onChange(key)
				}
			case <-time.After(90 * time.Second):
				go func() {
					if err := listener.Ping(); err != nil {
						logger.Warn("Postgres listener ping failed", "error", err)
					}
				}()
			}
		}
	}()
	return nil
}

func (s *Store) History(ctx context.Context, key string, limit int) ([]store.Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rev, value::text, replaced_at FROM kv_history
		WHERE key = $1 ORDER BY rev DESC LIMIT $2`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Revision
	for rows.Next() {
		var r store.Revision
		var value string
		if err := rows.Scan(&r.Rev, &value, &r.ReplacedAt); err != nil {
			return nil, err
		}
		r.Value = []byte(value)
		out = append(out, r)
	}
	return out, rows.Err()
}
