// Package migration applies the numbered SQL files that build the keyed
// store schema and tracks the applied version in schema_version.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the bind-parameter syntax for the schema_version queries.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the database schema with the embedded migrations.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

// UpToDate reports whether no migration is waiting to be applied.
func (s Status) UpToDate() bool {
	return len(s.Pending) == 0 && s.Current == s.Latest
}

type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

// NewRunner creates a migration runner for a sqlite database.
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return NewRunnerWithDialect(db, migrationFS, SQLite)
}

func NewRunnerWithDialect(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

func (r *Runner) insertVersionSQL() string {
	placeholder := "?"
	if r.dialect == Postgres {
		placeholder = "$1"
	}
	return "INSERT INTO schema_version (version) VALUES (" + placeholder + ")"
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded schema version.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureVersionTable(); err != nil {
		return err
	}
	return r.writeVersion(r.db, version)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) writeVersion(db execer, version int) error {
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := db.Exec(r.insertVersionSQL(), version); err != nil {
		return fmt.Errorf("failed to set version %d: %w", version, err)
	}
	return nil
}

// parseName splits "001_init.sql" into 1 and "init".
func parseName(filename string) (int, string, error) {
	prefix, rest, ok := strings.Cut(filename, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", filename, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", filename)
	}
	return version, strings.TrimSuffix(rest, ".sql"), nil
}

// ReadMigrationFiles returns the migrations in version order.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, name, err := parseName(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(content)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// GetLatestVersion returns the highest embedded migration version.
func (r *Runner) GetLatestVersion() (int, error) {
	all, err := r.ReadMigrationFiles()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	return all[len(all)-1].Version, nil
}

func newerError(current, latest int) error {
	return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", current, latest)
}

// Status reports the applied and available versions and what is pending.
func (r *Runner) Status() (Status, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return Status{}, err
	}
	all, err := r.ReadMigrationFiles()
	if err != nil {
		return Status{}, fmt.Errorf("failed to read migrations: %w", err)
	}

	st := Status{Current: current}
	if len(all) > 0 {
		st.Latest = all[len(all)-1].Version
	}
	for _, m := range all {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// ApplyMigrations applies every pending migration, each in its own
// transaction, and returns how many were applied. logFn receives progress
// lines and may be nil.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Latest == 0 {
		logFn("No migration files found")
		return 0, nil
	}
	if st.Current > st.Latest {
		return 0, newerError(st.Current, st.Latest)
	}
	if len(st.Pending) == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema from version %d to %d (%d pending)", st.Current, st.Latest, len(st.Pending)))
	start := time.Now()
	for i, m := range st.Pending {
		logFn(fmt.Sprintf("  Applying migration %d: %s", m.Version, m.Name))
		if err := r.apply(m); err != nil {
			return i, err
		}
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(st.Pending), time.Since(start)))
	return len(st.Pending), nil
}

func (r *Runner) apply(m Migration) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err = r.writeVersion(tx, m.Version); err != nil {
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion fails when the database was migrated by a newer release.
func (r *Runner) ValidateVersion() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return newerError(st.Current, st.Latest)
	}
	return nil
}
