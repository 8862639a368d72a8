package constants

import "time"

const (
	AppName           = "chronos"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/chronos"
	DefaultConfigPath = "~/.config/chronos/config.yaml"
	DefaultDBName     = "chronos.db"

	// Keyring accounts
	KeyringDBUser    = "database-connection"
	KeyringStatsUser = "stats-token"

	// EnvDBConnection overrides the configured storage DSN.
	EnvDBConnection = "CHRONOS_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "chronos-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "chronos-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.chronos"
	TrayExecutablePrefix   = "chronos-tray"

	// Stats
	StatsRequestTimeout = 5 * time.Second

	// Run loop
	DefaultTickSpec     = "* * * * * *"
	DefaultPollInterval = 500 * time.Millisecond

	// Postgres change channel
	PostgresNotifyChannel = "chronos_kv"
)

// Store keys. Each feature owns exactly one key.
const (
	KeyAlarms     = "alarms"
	KeyTimers     = "timers"
	KeyCountdowns = "countdowns"
	KeySchedule   = "schedule"
	KeyWorldClock = "world-clock"
	KeySettings   = "settings"
	KeyStats      = "stats"
)

// FeatureKeys lists every key copied by a migration between backends.
var FeatureKeys = []string{KeyAlarms, KeyTimers, KeyCountdowns, KeySchedule, KeyWorldClock, KeySettings, KeyStats}
