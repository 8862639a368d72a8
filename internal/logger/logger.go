// Package logger is the process-wide structured logger. Entries go to a
// rotating file under the config directory; debug mode mirrors them to
// stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/chronos/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	path string
)

// Config holds logger configuration. Zero rotation fields use the defaults.
type Config struct {
	Debug     bool
	Level     string
	ConfigDir string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	if lvl, err := log.ParseLevel(strings.ToLower(c.Level)); err == nil && c.Level != "" {
		return lvl
	}
	return log.WarnLevel
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func newLogger(w io.Writer, lvl log.Level, caller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    caller,
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          constants.AppName,
	})
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	path = filepath.Join(logDir, constants.AppName+".log")

	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 3),
		MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		Compress:   true,
	}
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, w)
	}
	Logger = newLogger(w, cfg.level(), cfg.Debug)
	return nil
}

// InitWriter points the global logger at w. Used by tests.
func InitWriter(w io.Writer, debug bool) {
	path = ""
	Logger = newLogger(w, Config{Debug: debug}.level(), false)
}

// Path returns the log file, or "" when logging to a plain writer.
func Path() string {
	return path
}

// With returns a child logger tagging every entry with component.
func With(component string) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With("component", component)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
