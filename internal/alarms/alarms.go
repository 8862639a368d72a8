// Package alarms decides which alarms are due and tracks which are ringing.
package alarms

import (
	"time"

	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
)

// Due returns the ids of alarms newly due at now, in list order. An alarm is
// due when it is active, not ringing, scheduled for now's weekday, and now is
// exactly second 0 of its hour and minute. A snoozed alarm is also due once
// its snooze expires. Alarms with a malformed time are skipped.
//
// There is no catch-up: if the matching second is never evaluated the alarm
// waits for its next occurrence.
func Due(now time.Time, list []models.Alarm, ringing map[string]bool) []string {
	var due []string
	for i := range list {
		a := &list[i]
		if ringing[a.ID] {
			continue
		}
		if snoozeExpired(a, now) || matches(a, now) {
			due = append(due, a.ID)
		}
	}
	return due
}

func snoozeExpired(a *models.Alarm, now time.Time) bool {
	return a.SnoozedUntil != nil && !a.SnoozedUntil.After(now)
}

func matches(a *models.Alarm, now time.Time) bool {
	if !a.Active || now.Second() != 0 || !a.RunsOn(now.Weekday()) {
		return false
	}
	h, m, err := a.HourMinute()
	if err != nil {
		logger.Warn("Skipping alarm with malformed time", "id", a.ID, "error", err)
		return false
	}
	return h == now.Hour() && m == now.Minute()
}

// Next returns the next instant at or after now when a would ring, or false
// when it never will (inactive or malformed).
func Next(a models.Alarm, now time.Time) (time.Time, bool) {
	if a.SnoozedUntil != nil {
		return *a.SnoozedUntil, true
	}
	if !a.Active {
		return time.Time{}, false
	}
	h, m, err := a.HourMinute()
	if err != nil {
		return time.Time{}, false
	}
	y, mo, d := now.Date()
	for i := 0; i < 8; i++ {
		at := time.Date(y, mo, d+i, h, m, 0, 0, now.Location())
		if !at.Before(now) && a.RunsOn(at.Weekday()) {
			return at, true
		}
	}
	return time.Time{}, false
}
