package models

import (
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
)

// ScheduleItem is either a concrete task on Date or, when RecurrenceType is
// set, a template whose Date is the first day of the recurrence.
type ScheduleItem struct {
	ID                string                   `json:"id"`
	Text              string                   `json:"text"`
	Completed         bool                     `json:"completed"`
	Date              string                   `json:"date"`           // YYYY-MM-DD format
	Time              string                   `json:"time,omitempty"` // HH:MM format
	Notes             string                   `json:"notes,omitempty"`
	RecurrenceType    constants.RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceDays    []time.Weekday           `json:"recurrence_days,omitempty"`
	RecurrenceEndDate string                   `json:"recurrence_end_date,omitempty"`
	Difficulty        constants.Difficulty     `json:"difficulty,omitempty"`

	// TemplateID links an occurrence back to the template it came from.
	TemplateID string `json:"template_id,omitempty"`
	// ExcludedDates lists occurrences of a template that were deleted.
	ExcludedDates []string `json:"excluded_dates,omitempty"`
}

// IsTemplate reports whether the item carries recurrence rules.
func (s *ScheduleItem) IsTemplate() bool {
	return s.RecurrenceType != constants.RecurrenceNone
}

// IsExcluded reports whether the template skips the given date.
func (s *ScheduleItem) IsExcluded(date string) bool {
	for _, d := range s.ExcludedDates {
		if d == date {
			return true
		}
	}
	return false
}

func (s *ScheduleItem) Validate() error {
	if s.Text == "" {
		return apperrors.Invalid("task text cannot be empty")
	}

	start, err := time.Parse(constants.DateFormat, s.Date)
	if err != nil {
		return apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", s.Date)
	}

	if s.Time != "" {
		if _, err := time.Parse(constants.TimeFormat, s.Time); err != nil {
			return apperrors.Invalid("invalid time %q (expected HH:MM)", s.Time)
		}
	}

	switch s.Difficulty {
	case "", constants.DifficultyEasy, constants.DifficultyMedium, constants.DifficultyHard:
	default:
		return apperrors.Invalid("invalid difficulty %q (must be easy, medium, or hard)", s.Difficulty)
	}

	switch s.RecurrenceType {
	case constants.RecurrenceNone:
		if len(s.RecurrenceDays) > 0 || s.RecurrenceEndDate != "" {
			return apperrors.Invalid("recurrence days or end date set without a recurrence type")
		}
		return nil
	case constants.RecurrenceDaily:
	case constants.RecurrenceWeekly:
		if len(s.RecurrenceDays) == 0 {
			return apperrors.Invalid("weekdays must be specified for weekly recurrence")
		}
	default:
		return apperrors.Invalid("invalid recurrence type %q (must be daily or weekly)", s.RecurrenceType)
	}

	for _, d := range s.RecurrenceDays {
		if d < time.Sunday || d > time.Saturday {
			return apperrors.Invalid("invalid weekday index %d (expected 0-6)", int(d))
		}
	}

	if s.RecurrenceEndDate != "" {
		end, err := time.Parse(constants.DateFormat, s.RecurrenceEndDate)
		if err != nil {
			return apperrors.Invalid("invalid recurrence end date %q (expected YYYY-MM-DD)", s.RecurrenceEndDate)
		}
		if end.Before(start) {
			return apperrors.Invalid("recurrence end date %s is before start date %s", s.RecurrenceEndDate, s.Date)
		}
	}

	return nil
}
