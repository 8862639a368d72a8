package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/chronos/internal/constants"
)

// StorageConfig selects the keyed store backend.
type StorageConfig struct {
	// DSN is a sqlite file path or a postgres:// URL without a password.
	DSN string `yaml:"dsn"`
	// PollInterval controls how often the sqlite backend checks for commits
	// made by other processes.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// NotificationConfig controls the notification sink.
type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
	// Bell rings the terminal bell when the tray app cannot be reached.
	Bell bool `yaml:"bell"`
}

// StatsConfig points at the optional remote stats document store. Both
// fields must be set, and a token stored in the keyring, for remote
// counters to be sent.
type StatsConfig struct {
	Endpoint string `yaml:"endpoint"`
	UserID   string `yaml:"user_id"`
}

// LogConfig controls logger verbosity and file rotation.
type LogConfig struct {
	Debug bool `yaml:"debug"`
	// Level is debug, info, warn or error. Debug overrides it.
	Level      string `yaml:"level,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`

	// Tick is a cron spec with a seconds field driving the feature loops.
	Tick string `yaml:"tick"`

	// Timezone is the IANA zone used for "now" ("Local" for the system zone).
	Timezone string `yaml:"timezone"`

	Notifications NotificationConfig `yaml:"notifications"`
	Stats         StatsConfig        `yaml:"stats"`
	Log           LogConfig          `yaml:"log"`
}

// DefaultConfig returns an in-memory default configuration rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Storage: StorageConfig{
			DSN:          filepath.Join(dir, constants.DefaultDBName),
			PollInterval: constants.DefaultPollInterval,
		},
		Tick:     constants.DefaultTickSpec,
		Timezone: constants.DefaultTimezone,
		Notifications: NotificationConfig{
			Enabled: true,
			Bell:    true,
		},
	}
}

// Normalize fills in missing/zero values so partially-filled configs still work.
func (c *Config) Normalize(dir string) {
	if c.Storage.DSN == "" {
		c.Storage.DSN = filepath.Join(dir, constants.DefaultDBName)
	}
	if c.Storage.PollInterval <= 0 {
		c.Storage.PollInterval = constants.DefaultPollInterval
	}
	if c.Tick == "" {
		c.Tick = constants.DefaultTickSpec
	}
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	c.Storage.DSN = ExpandHome(c.Storage.DSN)
}

// IsPostgres reports whether the storage DSN targets PostgreSQL.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.Storage.DSN, "postgres://") || strings.HasPrefix(c.Storage.DSN, "postgresql://")
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path = ExpandHome(path)
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig(dir)
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize(dir)

	return &cfg, nil
}

// Save writes the configuration atomically via a temp file + rename, with
// 0600 permissions on the final file.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	path = ExpandHome(path)

	dir := filepath.Dir(path)
	cfg.Normalize(dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".chronos-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
