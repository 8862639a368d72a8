package timing

import (
	"time"

	"github.com/julianstephens/chronos/internal/models"
)

// Start moves an idle, paused or finished timer to running. A finished timer
// restarts from its full duration.
func Start(t models.Timer, now time.Time) models.Timer {
	if t.State() == models.TimerFinished {
		t.RemainingSec = t.DurationSec
	}
	t.Running = true
	t.Paused = false
	t.LastTickAt = &now
	return t
}

// Pause freezes a running timer. Other states are returned unchanged.
func Pause(t models.Timer) models.Timer {
	if t.State() != models.TimerRunning {
		return t
	}
	t.Paused = true
	t.LastTickAt = nil
	return t
}

// Resume continues a paused timer.
func Resume(t models.Timer, now time.Time) models.Timer {
	if t.State() != models.TimerPaused {
		return t
	}
	t.Paused = false
	t.LastTickAt = &now
	return t
}

// Reset returns the timer to idle with its full duration.
func Reset(t models.Timer) models.Timer {
	t.RemainingSec = t.DurationSec
	t.Running = false
	t.Paused = false
	t.LastTickAt = nil
	return t
}

// Tick advances a running timer by the whole seconds elapsed since its last
// tick, which is exactly one at a 1 Hz cadence. It reports whether this
// tick finished the timer; that happens once, since a finished timer is no
// longer running.
func Tick(t models.Timer, now time.Time) (models.Timer, bool) {
	if t.State() != models.TimerRunning {
		return t, false
	}

	elapsed := 1
	if t.LastTickAt != nil {
		elapsed = int(now.Sub(*t.LastTickAt) / time.Second)
	}
	if elapsed <= 0 {
		return t, false
	}

	last := now
	if t.LastTickAt != nil {
		last = t.LastTickAt.Add(time.Duration(elapsed) * time.Second)
	}
	t.LastTickAt = &last

	t.RemainingSec -= elapsed
	if t.RemainingSec > 0 {
		return t, false
	}
	t.RemainingSec = 0
	t.Running = false
	t.Paused = false
	t.LastTickAt = nil
	return t, true
}

// TickAll ticks every timer, returning the new list and the timers that
// finished on this tick.
func TickAll(list []models.Timer, now time.Time) ([]models.Timer, []models.Timer, bool) {
	out := make([]models.Timer, len(list))
	var finished []models.Timer
	changed := false
	for i, t := range list {
		next, done := Tick(t, now)
		out[i] = next
		if done {
			finished = append(finished, next)
		}
		if next.RemainingSec != t.RemainingSec || next.Running != t.Running {
			changed = true
		}
	}
	return out, finished, changed
}
