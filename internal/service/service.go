// Package service joins the keyed store, the evaluation engine and the
// side-effect sinks into per-feature operations used by the CLI and TUI.
package service

import (
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/runloop"
	"github.com/julianstephens/chronos/internal/stats"
	"github.com/julianstephens/chronos/internal/store"
)

// Clock returns the current instant in the user's zone.
type Clock func() time.Time

// Env carries the collaborators shared by every feature service.
type Env struct {
	Store    *store.Store
	Clock    Clock
	Location *time.Location
	Notifier *notifier.Dispatcher
	Stats    stats.Recorder
}

func (e Env) now() time.Time {
	if e.Clock == nil {
		return time.Now().In(e.location())
	}
	return e.Clock()
}

func (e Env) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e Env) record(counter string, at time.Time) {
	if e.Stats != nil {
		e.Stats.Record(counter, at)
	}
}

// App bundles the feature services over one store.
type App struct {
	Env        Env
	Alarms     *Alarms
	Timers     *Timers
	Countdowns *Countdowns
	Schedule   *Schedule
	Clocks     *Clocks
	Settings   *Settings
	Stats      *stats.Local
}

// NewApp opens every feature key. localZone names the zone used for the
// auto-inserted local world clock. When env.Stats is nil, counters are
// kept locally only.
func NewApp(env Env, localZone string) *App {
	local := stats.NewLocal(store.Open(env.Store, constants.KeyStats, models.Stats{}))
	if env.Stats == nil {
		env.Stats = local
	}
	return &App{
		Env:        env,
		Alarms:     NewAlarms(env),
		Timers:     NewTimers(env),
		Countdowns: NewCountdowns(env),
		Schedule:   NewSchedule(env),
		Clocks:     NewClocks(env, localZone),
		Settings:   NewSettings(env),
		Stats:      local,
	}
}

// Now returns the app clock's current instant.
func (a *App) Now() time.Time {
	return a.Env.now()
}

// RegisterLoops registers the alarm and timer ticks on loop. The returned
// func cancels both.
func (a *App) RegisterLoops(loop *runloop.Loop) (func(), error) {
	cancelAlarms, err := loop.Register("alarms", func(now time.Time) { a.Alarms.Tick(now) })
	if err != nil {
		return nil, err
	}
	cancelTimers, err := loop.Register("timers", func(now time.Time) { a.Timers.Tick(now) })
	if err != nil {
		cancelAlarms()
		return nil, err
	}
	return func() {
		cancelAlarms()
		cancelTimers()
	}, nil
}
