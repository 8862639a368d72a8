package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
)

type Alarm struct {
	ID            string         `json:"id"`
	Time          string         `json:"time"` // HH:MM format
	Label         string         `json:"label"`
	Sound         string         `json:"sound"`
	SnoozeEnabled bool           `json:"snooze_enabled"`
	SnoozeMinutes int            `json:"snooze_minutes"`
	Active        bool           `json:"active"`
	Days          []time.Weekday `json:"days,omitempty"` // empty means fire once
	SnoozedUntil  *time.Time     `json:"snoozed_until,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (a *Alarm) Validate() error {
	if a.Time == "" {
		return apperrors.Invalid("alarm time cannot be empty")
	}
	if _, err := time.Parse(constants.TimeFormat, a.Time); err != nil {
		return apperrors.Invalid("invalid alarm time %q (expected HH:MM)", a.Time)
	}
	if a.SnoozeMinutes < 1 {
		return apperrors.Invalid("snooze duration must be at least 1 minute")
	}
	for _, d := range a.Days {
		if d < time.Sunday || d > time.Saturday {
			return apperrors.Invalid("invalid weekday index %d (expected 0-6)", int(d))
		}
	}
	return nil
}

// IsRecurring reports whether the alarm repeats on a weekday set. A
// non-recurring alarm fires once and then deactivates.
func (a *Alarm) IsRecurring() bool {
	return len(a.Days) > 0
}

// HourMinute returns the alarm's time of day.
func (a *Alarm) HourMinute() (int, int, error) {
	t, err := time.Parse(constants.TimeFormat, a.Time)
	if err != nil {
		return 0, 0, apperrors.Malformed("alarm time", a.Time, err)
	}
	return t.Hour(), t.Minute(), nil
}

// RunsOn reports whether the alarm is scheduled for the given weekday.
func (a *Alarm) RunsOn(wd time.Weekday) bool {
	if !a.IsRecurring() {
		return true
	}
	for _, d := range a.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// NormalizeDays sorts the weekday set and drops duplicates.
func (a *Alarm) NormalizeDays() {
	if len(a.Days) == 0 {
		a.Days = nil
		return
	}
	seen := make(map[time.Weekday]bool, len(a.Days))
	days := make([]time.Weekday, 0, len(a.Days))
	for _, d := range a.Days {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	a.Days = days
}

// FormatDays returns a human-readable description of the repeat pattern
func (a *Alarm) FormatDays() string {
	if !a.IsRecurring() {
		return "Once"
	}
	if len(a.Days) == 7 {
		return "Every day"
	}
	days := make([]string, len(a.Days))
	for i, wd := range a.Days {
		days[i] = wd.String()[:3]
	}
	return fmt.Sprintf("Weekly: %s", strings.Join(days, ", "))
}
