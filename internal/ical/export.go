// Package ical converts schedule items and countdowns to and from
// iCalendar (RFC 5545).
package ical

import (
	"fmt"
	"io"
	"time"

	goical "github.com/emersion/go-ical"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/recurrence"
	"github.com/julianstephens/chronos/internal/timing"
	"github.com/julianstephens/chronos/internal/utils"
)

const (
	productID = "-//julianstephens//chronos " + constants.Version + "//EN"
	uidSuffix = "@" + constants.AppName

	dateLayout     = "20060102"
	floatingLayout = "20060102T150405"

	propCompleted = "X-CHRONOS-COMPLETED"
	propKind      = "X-CHRONOS-KIND"
	kindCountdown = "countdown"
)

// Export writes a VCALENDAR holding every schedule item and countdown.
// Templates carry an RRULE and EXDATEs; stored instances of a template are
// written as overrides with RECURRENCE-ID. Times of day are floating.
func Export(w io.Writer, items []models.ScheduleItem, countdowns []models.Countdown, now time.Time) error {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, productID)

	stamp := now.UTC()
	for _, it := range items {
		ev, err := scheduleEvent(it, stamp)
		if err != nil {
			logger.Warn("Skipping schedule item in export", "id", it.ID, "error", err)
			continue
		}
		cal.Children = append(cal.Children, ev.Component)
	}
	for _, c := range countdowns {
		cal.Children = append(cal.Children, countdownEvent(c, stamp, now).Component)
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func scheduleEvent(it models.ScheduleItem, stamp time.Time) (*goical.Event, error) {
	date, err := utils.ParseDate(it.Date, time.UTC).Get()
	if err != nil {
		return nil, err
	}

	ev := goical.NewEvent()
	uid := it.ID
	if it.TemplateID != "" {
		uid = it.TemplateID
	}
	ev.Props.SetText(goical.PropUID, uid+uidSuffix)
	ev.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
	ev.Props.SetText(goical.PropSummary, it.Text)
	if it.Notes != "" {
		ev.Props.SetText(goical.PropDescription, it.Notes)
	}
	setStart(ev.Props, goical.PropDateTimeStart, date, it.Time)

	if it.TemplateID != "" {
		setStart(ev.Props, goical.PropRecurrenceID, date, "")
	}
	if it.IsTemplate() {
		rule := goical.NewProp(goical.PropRecurrenceRule)
		rule.Value = recurrence.RuleString(it)
		ev.Props.Set(rule)

		for _, ex := range it.ExcludedDates {
			d, err := utils.ParseDate(ex, time.UTC).Get()
			if err != nil {
				logger.Warn("Skipping malformed excluded date", "id", it.ID, "date", ex)
				continue
			}
			exdate := goical.NewProp(goical.PropExceptionDates)
			exdate.Params.Set(goical.ParamValue, string(goical.ValueDate))
			exdate.Value = d.Format(dateLayout)
			ev.Props.Add(exdate)
		}
	}
	if it.Completed {
		done := goical.NewProp(propCompleted)
		done.Value = "TRUE"
		ev.Props.Set(done)
	}
	return ev, nil
}

// setStart writes an all-day date or a floating date-time.
func setStart(props goical.Props, name string, date time.Time, hhmm string) {
	prop := goical.NewProp(name)
	if tod, err := utils.ParseTimeOfDay(hhmm).Get(); hhmm != "" && err == nil {
		at := time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC)
		prop.Value = at.Format(floatingLayout)
	} else {
		prop.Params.Set(goical.ParamValue, string(goical.ValueDate))
		prop.Value = date.Format(dateLayout)
	}
	props.Set(prop)
}

func countdownEvent(c models.Countdown, stamp, now time.Time) *goical.Event {
	ev := goical.NewEvent()
	ev.Props.SetText(goical.PropUID, c.ID+uidSuffix)
	ev.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
	summary := c.Name
	if c.Emoji != "" {
		summary = c.Emoji + " " + c.Name
	}
	ev.Props.SetText(goical.PropSummary, summary)
	ev.Props.SetDateTime(goical.PropDateTimeStart, timing.Target(c, now).UTC())

	kind := goical.NewProp(propKind)
	kind.Value = kindCountdown
	ev.Props.Set(kind)
	return ev
}
