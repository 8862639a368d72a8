package runloop

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
)

// Task is a repeating unit of work. It receives the tick time.
type Task func(now time.Time)

// Loop is a registry of repeating tasks driven by a seconds-resolution
// cron scheduler. Each registration returns a cancel func; a task that is
// still running when its next tick arrives is skipped.
type Loop struct {
	cron  *cron.Cron
	spec  string
	clock func() time.Time

	mu      sync.Mutex
	entries map[cron.EntryID]string
	started bool
}

// New creates a loop firing registered tasks on spec (empty means every second).
func New(spec string, clock func() time.Time) *Loop {
	if spec == "" {
		spec = constants.DefaultTickSpec
	}
	if clock == nil {
		clock = time.Now
	}
	log := cronLogger{}
	return &Loop{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		spec:    spec,
		clock:   clock,
		entries: make(map[cron.EntryID]string),
	}
}

// ValidateSpec reports whether spec is a usable tick schedule.
func ValidateSpec(spec string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid tick spec %q: %w", spec, err)
	}
	return nil
}

// Register schedules task under name and returns a func that cancels it.
func (l *Loop) Register(name string, task Task) (func(), error) {
	id, err := l.cron.AddFunc(l.spec, func() { task(l.clock()) })
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}

	l.mu.Lock()
	l.entries[id] = name
	l.mu.Unlock()
	logger.Debug("Registered repeating task", "name", name, "spec", l.spec)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.cron.Remove(id)
			l.mu.Lock()
			delete(l.entries, id)
			l.mu.Unlock()
			logger.Debug("Cancelled repeating task", "name", name)
		})
	}, nil
}

// Tasks returns the names of the registered tasks.
func (l *Loop) Tasks() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.entries))
	for _, name := range l.entries {
		names = append(names, name)
	}
	return names
}

// Start begins ticking in the background.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	l.cron.Start()
}

// Stop halts the scheduler and waits for running tasks.
func (l *Loop) Stop() {
	l.mu.Lock()
	started := l.started
	l.started = false
	l.mu.Unlock()
	if started {
		<-l.cron.Stop().Done()
	}
}

// cronLogger routes cron's diagnostics to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.With("cron").Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.With("cron").Error(msg, append(keysAndValues, "error", err)...)
}
