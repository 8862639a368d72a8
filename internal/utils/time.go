package utils

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/logger"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseTimeOfDay parses an HH:MM string.
func ParseTimeOfDay(s string) mo.Result[time.Time] {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return mo.Err[time.Time](apperrors.Malformed("time of day", s, err))
	}
	return mo.Ok(t)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) mo.Result[time.Time] {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return mo.Err[time.Time](apperrors.Malformed("date", s, err))
	}
	return mo.Ok(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc))
}

// ParseInstant parses an RFC3339 timestamp.
func ParseInstant(s string) mo.Result[time.Time] {
	r := mo.TupleToResult(time.Parse(time.RFC3339, s))
	if r.IsError() {
		return mo.Err[time.Time](apperrors.Malformed("instant", s, r.Error()))
	}
	return r
}

// InstantOr parses an RFC3339 timestamp, logging and returning fallback when
// the stored value is malformed.
func InstantOr(s string, fallback time.Time) time.Time {
	return orWarn(ParseInstant(s), fallback)
}

// DateOr parses a YYYY-MM-DD date, logging and returning fallback when the
// stored value is malformed.
func DateOr(s string, loc *time.Location, fallback time.Time) time.Time {
	return orWarn(ParseDate(s, loc), fallback)
}

func orWarn(r mo.Result[time.Time], fallback time.Time) time.Time {
	if r.IsError() {
		logger.Warn("Falling back to default for malformed value", "error", r.Error())
		return fallback
	}
	return r.MustGet()
}

// ParseDateOrInstant accepts either a YYYY-MM-DD date (midnight in loc) or an
// RFC3339 instant. Used by user-facing inputs.
func ParseDateOrInstant(s string, loc *time.Location) (time.Time, error) {
	if r := ParseInstant(s); r.IsOk() {
		return r.MustGet(), nil
	}
	return ParseDate(s, loc).Get()
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateString formats t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := ParseDate(dateStr, loc).Get()
	if err != nil {
		return time.Time{}, err
	}
	tod, err := ParseTimeOfDay(timeStr).Get()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, loc), nil
}
