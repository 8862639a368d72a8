// Package recurrence expands recurring schedule templates into concrete
// per-day instances.
package recurrence

import (
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

// InstanceID is the deterministic id of a template's instance on date.
func InstanceID(templateID string, date time.Time) string {
	return templateID + "-" + utils.DateString(date)
}

// ParseInstanceID splits a derived instance id into its template id and
// date, interpreted in loc.
func ParseInstanceID(id string, loc *time.Location) (string, time.Time, bool) {
	n := len(constants.DateFormat)
	if len(id) < n+2 || id[len(id)-n-1] != '-' {
		return "", time.Time{}, false
	}
	date, err := time.ParseInLocation(constants.DateFormat, id[len(id)-n:], loc)
	if err != nil {
		return "", time.Time{}, false
	}
	return id[:len(id)-n-1], date, true
}

// Occurs reports whether tmpl yields an instance on date. A malformed start
// date is treated as starting on date; a malformed end date as no end.
func Occurs(tmpl models.ScheduleItem, date time.Time) bool {
	day := utils.Midnight(date)
	loc := day.Location()

	start := utils.DateOr(tmpl.Date, loc, day)
	if day.Before(start) {
		return false
	}
	if tmpl.RecurrenceEndDate != "" {
		if end, err := utils.ParseDate(tmpl.RecurrenceEndDate, loc).Get(); err != nil {
			logger.Warn("Ignoring malformed recurrence end date", "id", tmpl.ID, "error", err)
		} else if day.After(end) {
			return false
		}
	}

	switch tmpl.RecurrenceType {
	case constants.RecurrenceDaily:
		return true
	case constants.RecurrenceWeekly:
		for _, wd := range tmpl.RecurrenceDays {
			if wd == day.Weekday() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Derive synthesizes tmpl's instance on date: a concrete, uncompleted item
// with recurrence fields cleared.
func Derive(tmpl models.ScheduleItem, date time.Time) models.ScheduleItem {
	return models.ScheduleItem{
		ID:         InstanceID(tmpl.ID, date),
		Text:       tmpl.Text,
		Date:       utils.DateString(date),
		Time:       tmpl.Time,
		Notes:      tmpl.Notes,
		Difficulty: tmpl.Difficulty,
		TemplateID: tmpl.ID,
	}
}

// ItemsForDate returns the items to show on date in list order. Templates
// never appear themselves. Each template contributes its derived instance
// unless the date is excluded or a materialized exception with the same id
// is already stored.
func ItemsForDate(items []models.ScheduleItem, date time.Time) []models.ScheduleItem {
	dateStr := utils.DateString(date)

	stored := make(map[string]bool)
	for _, it := range items {
		if !it.IsTemplate() {
			stored[it.ID] = true
		}
	}

	var out []models.ScheduleItem
	for _, it := range items {
		if !it.IsTemplate() {
			if it.Date == dateStr {
				out = append(out, it)
			}
			continue
		}
		if it.IsExcluded(dateStr) || !Occurs(it, date) {
			continue
		}
		if stored[InstanceID(it.ID, date)] {
			continue
		}
		out = append(out, Derive(it, date))
	}
	return out
}

// Find resolves id against items as of date, returning either a stored item
// or a derived instance. The bool reports whether the result is derived.
func Find(items []models.ScheduleItem, id string, date time.Time) (models.ScheduleItem, bool, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, false, true
		}
	}
	for _, it := range ItemsForDate(items, date) {
		if it.ID == id {
			return it, true, true
		}
	}
	return models.ScheduleItem{}, false, false
}
