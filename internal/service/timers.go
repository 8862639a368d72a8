package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/timing"
)

type Timers struct {
	env Env
	key *store.Key[[]models.Timer]
	mu  sync.Mutex
}

func NewTimers(env Env) *Timers {
	return &Timers{
		env: env,
		key: store.Open(env.Store, constants.KeyTimers, []models.Timer{}),
	}
}

func (s *Timers) List() []models.Timer {
	return s.key.Get()
}

func (s *Timers) Subscribe(fn func([]models.Timer)) func() {
	return s.key.Subscribe(fn)
}

// Add creates an idle timer of duration d, truncated to whole seconds.
func (s *Timers) Add(name string, d time.Duration) (models.Timer, error) {
	secs := int(d / time.Second)
	t := models.Timer{
		ID:           uuid.New().String(),
		Name:         name,
		DurationSec:  secs,
		RemainingSec: secs,
		CreatedAt:    s.env.now(),
	}
	if t.Name == "" {
		t.Name = "Timer"
	}
	if err := t.Validate(); err != nil {
		return models.Timer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Update(func(list []models.Timer) []models.Timer {
		return append(list, t)
	})
	return t, nil
}

func (s *Timers) mutate(id string, fn func(models.Timer) models.Timer) (models.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	for i := range list {
		if list[i].ID == id {
			list[i] = fn(list[i])
			s.key.Set(list)
			return list[i], nil
		}
	}
	return models.Timer{}, apperrors.NotFound("timer", id)
}

func (s *Timers) Start(id string) (models.Timer, error) {
	now := s.env.now()
	return s.mutate(id, func(t models.Timer) models.Timer { return timing.Start(t, now) })
}

func (s *Timers) Pause(id string) (models.Timer, error) {
	return s.mutate(id, timing.Pause)
}

func (s *Timers) Resume(id string) (models.Timer, error) {
	now := s.env.now()
	return s.mutate(id, func(t models.Timer) models.Timer { return timing.Resume(t, now) })
}

func (s *Timers) Reset(id string) (models.Timer, error) {
	return s.mutate(id, timing.Reset)
}

func (s *Timers) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	out := make([]models.Timer, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	if len(out) == len(list) {
		return apperrors.NotFound("timer", id)
	}
	s.key.Set(out)
	return nil
}

// Tick advances running timers and fires the completion side effects for
// those that finished on this tick.
func (s *Timers) Tick(now time.Time) []models.Timer {
	s.mu.Lock()
	out, finished, changed := timing.TickAll(s.key.Get(), now)
	if changed {
		s.key.Set(out)
	}
	s.mu.Unlock()

	for _, t := range finished {
		logger.Info("Timer finished", "id", t.ID, "name", t.Name)
		s.env.Notifier.Send(notifier.Event{
			Kind:     constants.NotifyTimer,
			EntityID: t.ID,
			Label:    t.Name,
		})
		s.env.record(constants.StatTimersCompleted, now)
	}
	return finished
}
