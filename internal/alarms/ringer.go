package alarms

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/models"
)

// Ringer is the caller-side ringing state machine. An alarm moves from idle
// to ringing when the due-check fires and stays there until dismissed or
// snoozed; there is no timeout.
type Ringer struct {
	mu      sync.Mutex
	ringing map[string]time.Time
	// lastFired guards against re-entry within the minute a recurring alarm
	// was dismissed in.
	lastFired map[string]time.Time
}

func NewRinger() *Ringer {
	return &Ringer{
		ringing:   make(map[string]time.Time),
		lastFired: make(map[string]time.Time),
	}
}

// Evaluation is the outcome of one Evaluate call.
type Evaluation struct {
	// Fired holds the alarms that started ringing, as they were before the
	// transition.
	Fired []models.Alarm
	// Alarms is the list after applying fire-time mutations: non-recurring
	// alarms deactivate and expired snoozes clear.
	Alarms []models.Alarm
	// Changed reports whether Alarms differs from the input and should be
	// persisted.
	Changed bool
}

// Evaluate runs the due-check at now and moves due alarms to ringing.
func (r *Ringer) Evaluate(now time.Time, list []models.Alarm) Evaluation {
	r.mu.Lock()
	defer r.mu.Unlock()

	ringing := make(map[string]bool, len(r.ringing))
	for id := range r.ringing {
		ringing[id] = true
	}
	minute := now.Truncate(time.Minute)
	for id, at := range r.lastFired {
		if at.Equal(minute) {
			ringing[id] = true
		} else {
			delete(r.lastFired, id)
		}
	}

	ids := Due(now, list, ringing)
	out := Evaluation{Alarms: list}
	if len(ids) == 0 {
		return out
	}

	due := make(map[string]bool, len(ids))
	for _, id := range ids {
		due[id] = true
	}

	out.Alarms = make([]models.Alarm, len(list))
	copy(out.Alarms, list)
	for i := range out.Alarms {
		a := &out.Alarms[i]
		if !due[a.ID] {
			continue
		}
		out.Fired = append(out.Fired, *a)
		r.ringing[a.ID] = now
		r.lastFired[a.ID] = minute

		if a.SnoozedUntil != nil {
			a.SnoozedUntil = nil
			out.Changed = true
		}
		if !a.IsRecurring() && a.Active {
			a.Active = false
			out.Changed = true
		}
	}
	return out
}

// Dismiss stops a ringing alarm. Dismissing an alarm that is not ringing is
// a no-op. The returned list has the non-recurring alarm deactivated.
func (r *Ringer) Dismiss(id string, list []models.Alarm) ([]models.Alarm, bool) {
	r.mu.Lock()
	delete(r.ringing, id)
	r.mu.Unlock()

	out := make([]models.Alarm, len(list))
	copy(out, list)
	changed := false
	for i := range out {
		if out[i].ID == id && !out[i].IsRecurring() && out[i].Active {
			out[i].Active = false
			changed = true
		}
	}
	return out, changed
}

// Snooze stops a ringing alarm and schedules it to ring again after its
// snooze duration.
func (r *Ringer) Snooze(id string, now time.Time, list []models.Alarm) ([]models.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ringing[id]; !ok {
		return nil, apperrors.Invalid("alarm %s is not ringing", id)
	}

	out := make([]models.Alarm, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if !out[i].SnoozeEnabled {
			return nil, apperrors.Invalid("snooze is disabled for alarm %s", id)
		}
		until := now.Add(time.Duration(out[i].SnoozeMinutes) * time.Minute)
		out[i].SnoozedUntil = &until
		delete(r.ringing, id)
		return out, nil
	}
	delete(r.ringing, id)
	return nil, apperrors.NotFound("alarm", id)
}

// Forget drops any ringing state for id, e.g. after the alarm is deleted.
func (r *Ringer) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ringing, id)
	delete(r.lastFired, id)
}

// Ringing returns the ids currently ringing, sorted.
func (r *Ringer) Ringing() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.ringing))
	for id := range r.ringing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsRinging reports whether id is ringing.
func (r *Ringer) IsRinging(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ringing[id]
	return ok
}
