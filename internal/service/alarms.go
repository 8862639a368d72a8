package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronos/internal/alarms"
	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/store"
)

type Alarms struct {
	env    Env
	key    *store.Key[[]models.Alarm]
	ringer *alarms.Ringer
	mu     sync.Mutex
}

func NewAlarms(env Env) *Alarms {
	return &Alarms{
		env:    env,
		key:    store.Open(env.Store, constants.KeyAlarms, []models.Alarm{}),
		ringer: alarms.NewRinger(),
	}
}

func (s *Alarms) List() []models.Alarm {
	return s.key.Get()
}

// Subscribe calls fn whenever the alarm list changes.
func (s *Alarms) Subscribe(fn func([]models.Alarm)) func() {
	return s.key.Subscribe(fn)
}

// Add validates a and appends it as a new active alarm.
func (s *Alarms) Add(a models.Alarm) (models.Alarm, error) {
	a.ID = uuid.New().String()
	a.Active = true
	a.SnoozedUntil = nil
	a.CreatedAt = s.env.now()
	if a.Sound == "" {
		a.Sound = constants.DefaultSound
	}
	if a.SnoozeMinutes == 0 {
		a.SnoozeMinutes = constants.DefaultSnoozeMin
	}
	a.NormalizeDays()
	if err := a.Validate(); err != nil {
		return models.Alarm{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Update(func(list []models.Alarm) []models.Alarm {
		return append(list, a)
	})
	logger.Info("Alarm added", "id", a.ID, "time", a.Time)
	return a, nil
}

func (s *Alarms) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	out := make([]models.Alarm, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	if len(out) == len(list) {
		return apperrors.NotFound("alarm", id)
	}
	s.ringer.Forget(id)
	s.key.Set(out)
	return nil
}

// Toggle flips the active flag. Deactivating clears a pending snooze and
// stops the alarm if it is ringing.
func (s *Alarms) Toggle(id string) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Active = !list[i].Active
		if !list[i].Active {
			list[i].SnoozedUntil = nil
			s.ringer.Forget(id)
		}
		s.key.Set(list)
		return list[i], nil
	}
	return models.Alarm{}, apperrors.NotFound("alarm", id)
}

// Due runs the due-check at the given instant without changing any state.
func (s *Alarms) Due(at time.Time) []models.Alarm {
	list := s.key.Get()
	ringing := make(map[string]bool)
	for _, id := range s.ringer.Ringing() {
		ringing[id] = true
	}
	ids := alarms.Due(at, list, ringing)
	due := make(map[string]bool, len(ids))
	for _, id := range ids {
		due[id] = true
	}
	var out []models.Alarm
	for _, a := range list {
		if due[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// Tick evaluates the alarms at now, persists fire-time changes and raises a
// notification for every alarm that started ringing.
func (s *Alarms) Tick(now time.Time) []models.Alarm {
	s.mu.Lock()
	ev := s.ringer.Evaluate(now, s.key.Get())
	if ev.Changed {
		s.key.Set(ev.Alarms)
	}
	s.mu.Unlock()

	for _, a := range ev.Fired {
		logger.Info("Alarm ringing", "id", a.ID, "label", a.Label)
		s.env.Notifier.Send(notifier.Event{
			Kind:     constants.NotifyAlarm,
			EntityID: a.ID,
			Label:    a.Label,
			Sound:    a.Sound,
		})
		s.env.record(constants.StatAlarmsRung, now)
	}
	return ev.Fired
}

// Ringing returns the alarms currently ringing, in list order.
func (s *Alarms) Ringing() []models.Alarm {
	var out []models.Alarm
	for _, a := range s.key.Get() {
		if s.ringer.IsRinging(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// Dismiss stops a ringing alarm. Dismissing an alarm that is not ringing is
// a no-op.
func (s *Alarms) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, changed := s.ringer.Dismiss(id, s.key.Get()); changed {
		s.key.Set(out)
	}
}

// Snooze stops a ringing alarm and re-arms it for its snooze duration.
func (s *Alarms) Snooze(id string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.ringer.Snooze(id, s.env.now(), s.key.Get())
	if err != nil {
		return time.Time{}, err
	}
	s.key.Set(out)
	for _, a := range out {
		if a.ID == id && a.SnoozedUntil != nil {
			return *a.SnoozedUntil, nil
		}
	}
	return time.Time{}, nil
}

// Next returns the next time a would fire after now.
func (s *Alarms) Next(a models.Alarm) (time.Time, bool) {
	return alarms.Next(a, s.env.now())
}
