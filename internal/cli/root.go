package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/chronos/internal/backup"
	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/service"
	"github.com/julianstephens/chronos/internal/stats"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/utils"
)

// Backend is a keyed store backend that manages its own schema.
type Backend interface {
	store.Backend
	Init() error
	Load() error
}

type Context struct {
	Config     *config.Config
	ConfigPath string
	Backend    Backend
	// Sink receives alarm and timer notifications. Nil logs them only.
	Sink notifier.Sink

	store    *store.Store
	app      *service.App
	notifier *notifier.Dispatcher
	stats    stats.Recorder
}

// GetConfig returns the loaded configuration, or the defaults when none was set.
func (c *Context) GetConfig() *config.Config {
	if c.Config == nil {
		c.Config = config.DefaultConfig(constants.DefaultConfigDir)
	}
	return c.Config
}

// Location returns the configured zone, falling back to the system zone.
func (c *Context) Location() *time.Location {
	loc, err := utils.LoadLocation(c.GetConfig().Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in config, using system zone", "timezone", c.GetConfig().Timezone, "error", err)
		return time.Local
	}
	return loc
}

// App loads the backend and builds the feature services on first use.
func (c *Context) App() (*service.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if err := c.Backend.Load(); err != nil {
		return nil, err
	}

	cfg := c.GetConfig()
	loc := c.Location()
	c.store = store.New(c.Backend)

	local := stats.NewLocal(store.Open(c.store, constants.KeyStats, models.Stats{}))
	c.stats = stats.New(cfg.Stats, local)

	sink := c.Sink
	if sink == nil {
		sink = notifier.Log{}
	}
	c.notifier = notifier.NewDispatcher(sink, cfg.Notifications.Enabled)

	zone := cfg.Timezone
	if zone == constants.DefaultTimezone {
		zone = ""
	}
	c.app = service.NewApp(service.Env{
		Store:    c.store,
		Clock:    func() time.Time { return time.Now().In(loc) },
		Location: loc,
		Notifier: c.notifier,
		Stats:    c.stats,
	}, zone)
	return c.app, nil
}

// Store returns the open keyed store, or nil before App has been called.
func (c *Context) Store() *store.Store {
	return c.store
}

// Close waits for pending notifications and stats, then releases storage.
func (c *Context) Close() error {
	c.notifier.Wait()
	if c.stats != nil {
		stats.Flush(c.stats)
	}
	if c.store != nil {
		return c.store.Close()
	}
	if c.Backend != nil {
		return c.Backend.Close()
	}
	return nil
}

// SQLitePath returns the database file of a sqlite backend, or "" for
// other backends.
func (c *Context) SQLitePath() string {
	if p, ok := c.Backend.(interface{ GetConfigPath() string }); ok {
		return p.GetConfigPath()
	}
	return ""
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path := c.SQLitePath()
	if path == "" {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Formatter returns the display formatter for the current settings.
func (c *Context) Formatter() utils.Formatter {
	if c.app == nil {
		return utils.NewFormatter(models.DefaultSettings())
	}
	return c.app.Settings.Formatter()
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// Truncate shortens s to n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// ParseDate parses YYYY-MM-DD, "today" or "tomorrow" in now's zone.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" || s == "today" {
		return utils.Midnight(now), nil
	}
	if s == "tomorrow" {
		return utils.Midnight(now).AddDate(0, 0, 1), nil
	}
	d, err := utils.ParseDate(s, now.Location()).Get()
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", s)
	}
	return d, nil
}
