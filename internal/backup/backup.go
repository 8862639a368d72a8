package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
)

const (
	nameLayout        = "20060102-1504"
	nameLayoutSeconds = "20060102-150405"
)

// Info describes one snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots the sqlite keyed store file into a sibling backups
// directory and keeps the most recent MaxBackups of them.
type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new snapshot and rotates old ones.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.uniquePath()
	if err != nil {
		return "", err
	}
	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return path, nil
}

// uniquePath picks a minute-precision name, falling back to seconds and
// then a counter when snapshots are taken in quick succession.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	candidate := func(stamp string, n int) string {
		name := constants.BackupFilePrefix + stamp
		if n > 0 {
			name += fmt.Sprintf("-%d", n)
		}
		return filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
	}
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}

	if p := candidate(now.Format(nameLayout), 0); !exists(p) {
		return p, nil
	}
	stamp := now.Format(nameLayoutSeconds)
	for n := 0; n <= 100; n++ {
		if p := candidate(stamp, n); !exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// snapshot copies the database with VACUUM INTO, falling back to a file copy.
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns the snapshots newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(m.backupDir, entry.Name())
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		out = append(out, Info{Path: path, Timestamp: ts, Size: fi.Size()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Path > out[j].Path
	})
	return out, nil
}

// parseName extracts the timestamp from "chronos-YYYYMMDD-HHMM[SS][-N].db".
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{nameLayout, nameLayoutSeconds} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first; that path is returned ("" if there was no
// database). Other processes holding the store open must be restarted.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verifyFile(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		previous = p
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Database restored", "from", path, "previous", previous)
	return previous, nil
}

// Resolve maps a bare backup file name to its path in the backup directory.
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	candidate := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

// verify checks that db is readable and holds the keyed store table.
func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("not a %s database: kv table missing", constants.AppName)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
