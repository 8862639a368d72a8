package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

var byDay = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// RuleString renders tmpl's recurrence as an RFC 5545 RRULE value. It
// returns "" for non-templates.
func RuleString(tmpl models.ScheduleItem) string {
	var parts []string
	switch tmpl.RecurrenceType {
	case constants.RecurrenceDaily:
		parts = append(parts, "FREQ=DAILY")
	case constants.RecurrenceWeekly:
		parts = append(parts, "FREQ=WEEKLY")
		days := make([]string, 0, len(tmpl.RecurrenceDays))
		for _, wd := range tmpl.RecurrenceDays {
			if wd >= time.Sunday && wd <= time.Saturday {
				days = append(days, byDay[wd])
			}
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	default:
		return ""
	}
	if tmpl.RecurrenceEndDate != "" {
		if end, err := utils.ParseDate(tmpl.RecurrenceEndDate, time.UTC).Get(); err == nil {
			parts = append(parts, "UNTIL="+end.Format("20060102T150405Z"))
		}
	}
	return strings.Join(parts, ";")
}

// ParseRule reads a DAILY or WEEKLY RRULE value back into recurrence fields.
func ParseRule(rule string) (constants.RecurrenceType, []time.Weekday, string, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return "", nil, "", err
	}

	var until string
	if !opt.Until.IsZero() {
		until = utils.DateString(opt.Until.UTC())
	}

	switch opt.Freq {
	case rrule.DAILY:
		if len(opt.Byweekday) == 0 {
			return constants.RecurrenceDaily, nil, until, nil
		}
		// daily restricted to weekdays is weekly in our model
		fallthrough
	case rrule.WEEKLY:
		days := make([]time.Weekday, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			// rrule-go numbers weekdays from Monday
			days = append(days, time.Weekday((wd.Day()+1)%7))
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		return constants.RecurrenceWeekly, days, until, nil
	default:
		return "", nil, "", fmt.Errorf("unsupported recurrence frequency %v", opt.Freq)
	}
}

// ExpandRange returns every item occurring in [from, to] (by calendar date),
// ordered by date and then list order. It agrees with ItemsForDate on each
// day of the range.
func ExpandRange(items []models.ScheduleItem, from, to time.Time) []models.ScheduleItem {
	start := utcDate(from)
	end := utcDate(to)
	if end.Before(start) {
		return nil
	}

	stored := make(map[string]bool)
	for _, it := range items {
		if !it.IsTemplate() {
			stored[it.ID] = true
		}
	}

	type dated struct {
		date  time.Time
		order int
		item  models.ScheduleItem
	}
	var out []dated

	for i, it := range items {
		if !it.IsTemplate() {
			d, err := utils.ParseDate(it.Date, time.UTC).Get()
			if err != nil {
				logger.Warn("Skipping schedule item with malformed date", "id", it.ID, "error", err)
				continue
			}
			if !d.Before(start) && !d.After(end) {
				out = append(out, dated{d, i, it})
			}
			continue
		}

		for _, occ := range occurrences(it, start, end) {
			if stored[InstanceID(it.ID, occ)] {
				continue
			}
			out = append(out, dated{occ, i, Derive(it, occ)})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].date.Equal(out[b].date) {
			return out[a].date.Before(out[b].date)
		}
		return out[a].order < out[b].order
	})

	items = make([]models.ScheduleItem, len(out))
	for i, d := range out {
		items[i] = d.item
	}
	return items
}

// occurrences expands one template with rrule-go between start and end,
// all at UTC midnight.
func occurrences(tmpl models.ScheduleItem, start, end time.Time) []time.Time {
	dtstart, err := utils.ParseDate(tmpl.Date, time.UTC).Get()
	if err != nil {
		logger.Warn("Skipping template with malformed start date", "id", tmpl.ID, "error", err)
		return nil
	}

	r, err := rrule.StrToRRule(RuleString(tmpl))
	if err != nil {
		logger.Error("Failed to build recurrence rule", "id", tmpl.ID, "error", err)
		return nil
	}
	r.DTStart(dtstart)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range tmpl.ExcludedDates {
		if d, err := utils.ParseDate(ex, time.UTC).Get(); err == nil {
			set.ExDate(d)
		}
	}

	return set.Between(start, end, true)
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
