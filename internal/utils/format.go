package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
)

// Formatter renders times according to the active AppSettings. Display code
// receives one explicitly instead of reading settings from a global.
type Formatter struct {
	Settings models.AppSettings
}

func NewFormatter(settings models.AppSettings) Formatter {
	models.ApplyDefaultSettings(&settings)
	return Formatter{Settings: settings}
}

// Clock formats a wall clock reading with seconds.
func (f Formatter) Clock(t time.Time) string {
	if f.Settings.TimeFormat == constants.TimeDisplay12h {
		return t.Format(constants.Clock12Format)
	}
	return t.Format(constants.Clock24Format)
}

// TimeOfDay formats an HH:MM alarm or task time. Malformed input is returned
// unchanged.
func (f Formatter) TimeOfDay(hhmm string) string {
	t, err := ParseTimeOfDay(hhmm).Get()
	if err != nil {
		return hhmm
	}
	if f.Settings.TimeFormat == constants.TimeDisplay12h {
		return t.Format("3:04 PM")
	}
	return t.Format(constants.TimeFormat)
}

// Date formats a calendar date in the configured language.
func (f Formatter) Date(t time.Time) string {
	wd, ok := weekdayNames[f.Settings.Language]
	if !ok {
		wd = weekdayNames[constants.DefaultLanguage]
	}
	return fmt.Sprintf("%s %s", wd[t.Weekday()], t.Format(constants.DateFormat))
}

// Duration formats whole seconds as H:MM:SS, or MM:SS under an hour.
func (f Formatter) Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Stopwatch formats elapsed time with centiseconds.
func (f Formatter) Stopwatch(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := (d.Milliseconds() / 10) % 100
	total := int(d / time.Second)
	return fmt.Sprintf("%s.%02d", f.Duration(total), cs)
}

// Offset formats a UTC offset difference such as "+5:30" or "-8".
func (f Formatter) Offset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if m == 0 {
		return fmt.Sprintf("%s%dh", sign, h)
	}
	return fmt.Sprintf("%s%d:%02dh", sign, h, m)
}

var weekdayNames = map[string][7]string{
	"en": {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	"es": {"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	"fr": {"dim", "lun", "mar", "mer", "jeu", "ven", "sam"},
	"de": {"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	"ja": {"日", "月", "火", "水", "木", "金", "土"},
}
