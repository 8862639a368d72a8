package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/recurrence"
	"github.com/julianstephens/chronos/internal/utils"
)

// Import reads the VEVENTs of a calendar as schedule items. Events with a
// DAILY or WEEKLY RRULE become templates; other rules import as a single
// item on their start date. Overrides (RECURRENCE-ID) and countdowns
// exported by chronos are skipped. Date-times are converted to loc.
func Import(r io.Reader, loc *time.Location) ([]models.ScheduleItem, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var out []models.ScheduleItem
	for _, ve := range cal.Events() {
		it, ok := importEvent(ve, loc)
		if ok {
			out = append(out, it)
		}
	}
	logger.Info("Calendar import parsed", "events", len(cal.Events()), "items", len(out))
	return out, nil
}

func propValue(ve *ics.VEvent, name ics.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func importEvent(ve *ics.VEvent, loc *time.Location) (models.ScheduleItem, bool) {
	uid := propValue(ve, ics.ComponentPropertyUniqueId)
	if ve.GetProperty(ics.ComponentProperty("RECURRENCE-ID")) != nil {
		logger.Debug("Skipping recurrence override", "uid", uid)
		return models.ScheduleItem{}, false
	}
	if strings.EqualFold(propValue(ve, ics.ComponentProperty(propKind)), kindCountdown) {
		return models.ScheduleItem{}, false
	}

	summary := strings.TrimSpace(propValue(ve, ics.ComponentPropertySummary))
	if summary == "" {
		logger.Warn("Skipping event without summary", "uid", uid)
		return models.ScheduleItem{}, false
	}

	start, hasTime, err := eventStart(ve, loc)
	if err != nil {
		logger.Warn("Skipping event with malformed start", "uid", uid, "error", err)
		return models.ScheduleItem{}, false
	}

	it := models.ScheduleItem{
		Text:      summary,
		Date:      utils.DateString(start),
		Notes:     propValue(ve, ics.ComponentPropertyDescription),
		Completed: strings.EqualFold(propValue(ve, ics.ComponentProperty(propCompleted)), "TRUE"),
	}
	if hasTime {
		it.Time = start.Format(constants.TimeFormat)
	}

	rule := propValue(ve, ics.ComponentPropertyRrule)
	if rule == "" {
		return it, true
	}
	typ, days, until, err := recurrence.ParseRule(rule)
	if err != nil {
		logger.Warn("Importing recurring event as a single item", "uid", uid, "rrule", rule, "error", err)
		return it, true
	}
	if typ == constants.RecurrenceWeekly && len(days) == 0 {
		days = []time.Weekday{start.Weekday()}
	}
	it.Completed = false
	it.RecurrenceType = typ
	it.RecurrenceDays = days
	it.RecurrenceEndDate = until
	it.ExcludedDates = exceptionDates(ve, loc)
	return it, true
}

// eventStart returns DTSTART in loc and whether it carries a time of day.
func eventStart(ve *ics.VEvent, loc *time.Location) (time.Time, bool, error) {
	prop := ve.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing DTSTART")
	}
	if !strings.Contains(prop.Value, "T") {
		d, err := time.ParseInLocation(dateLayout, prop.Value, loc)
		return d, false, err
	}
	if strings.HasSuffix(prop.Value, "Z") || len(prop.ICalParameters["TZID"]) > 0 {
		t, err := ve.GetStartAt()
		if err != nil {
			return time.Time{}, false, err
		}
		return t.In(loc), true, nil
	}
	// floating time
	t, err := time.ParseInLocation(floatingLayout, prop.Value, loc)
	return t, true, err
}

func exceptionDates(ve *ics.VEvent, loc *time.Location) []string {
	var out []string
	for _, p := range ve.GetProperties(ics.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if len(part) < len(dateLayout) {
				continue
			}
			var d time.Time
			var err error
			if strings.HasSuffix(part, "Z") {
				d, err = time.Parse("20060102T150405Z", part)
				d = d.In(loc)
			} else {
				d, err = time.ParseInLocation(dateLayout, part[:len(dateLayout)], loc)
			}
			if err != nil {
				logger.Warn("Skipping malformed EXDATE", "value", part)
				continue
			}
			out = append(out, utils.DateString(d))
		}
	}
	return out
}
