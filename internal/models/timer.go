package models

import (
	"time"

	apperrors "github.com/julianstephens/chronos/internal/errors"
)

// TimerState is derived from the running/paused flags and remaining time.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
	TimerFinished
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	case TimerFinished:
		return "finished"
	default:
		return "idle"
	}
}

type Timer struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DurationSec  int        `json:"duration"`
	RemainingSec int        `json:"remaining"`
	Running      bool       `json:"running"`
	Paused       bool       `json:"paused"`
	CreatedAt    time.Time  `json:"created_at"`
	LastTickAt   *time.Time `json:"last_tick_at,omitempty"`
}

func (t *Timer) Validate() error {
	if t.DurationSec <= 0 {
		return apperrors.Invalid("timer duration must be greater than zero")
	}
	if t.RemainingSec < 0 || t.RemainingSec > t.DurationSec {
		return apperrors.Invalid("timer remaining time %ds outside 0..%ds", t.RemainingSec, t.DurationSec)
	}
	return nil
}

// State derives the timer's state machine position.
func (t *Timer) State() TimerState {
	switch {
	case t.Running && t.Paused:
		return TimerPaused
	case t.Running:
		return TimerRunning
	case t.RemainingSec == 0:
		return TimerFinished
	default:
		return TimerIdle
	}
}
