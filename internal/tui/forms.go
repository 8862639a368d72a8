package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/utils"
)

// QuickAddForm backs every quick-add form; each tab uses the fields it needs.
type QuickAddForm struct {
	Name       string
	Value      string
	Extra      string
	Days       []time.Weekday
	Recurrence constants.RecurrenceType
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func validTimeOfDay(optional bool) func(string) error {
	return func(s string) error {
		if optional && strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := utils.ParseTimeOfDay(s).Get(); err != nil {
			return fmt.Errorf("invalid time format (expected HH:MM)")
		}
		return nil
	}
}

func weekdayOptions() []huh.Option[time.Weekday] {
	var opts []huh.Option[time.Weekday]
	for d := time.Sunday; d <= time.Saturday; d++ {
		opts = append(opts, huh.NewOption(d.String(), d))
	}
	return opts
}

// NewAlarmForm creates a new form for adding alarms
func NewAlarmForm(fm *QuickAddForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Value).
				Validate(validTimeOfDay(false)),
			huh.NewInput().
				Title("Label").
				Value(&fm.Name),
			huh.NewMultiSelect[time.Weekday]().
				Title("Repeat on").
				Description("Leave empty to ring once").
				Options(weekdayOptions()...).
				Value(&fm.Days),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewTimerForm creates a new form for adding timers
func NewTimerForm(fm *QuickAddForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name),
			huh.NewInput().
				Title("Duration").
				Description("e.g. 25m, 1h30m, 90s").
				Value(&fm.Value).
				Validate(func(s string) error {
					d, err := time.ParseDuration(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("invalid duration")
					}
					if d < time.Second {
						return fmt.Errorf("duration must be at least one second")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewCountdownForm creates a new form for adding countdowns
func NewCountdownForm(fm *QuickAddForm, loc *time.Location) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(required("countdown name")),
			huh.NewInput().
				Title("Target").
				Description("YYYY-MM-DD or RFC3339").
				Value(&fm.Value).
				Validate(func(s string) error {
					_, err := utils.ParseDateOrInstant(strings.TrimSpace(s), loc)
					return err
				}),
			huh.NewInput().
				Title("Emoji").
				Value(&fm.Extra),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewScheduleForm creates a new form for adding schedule items on the
// selected day
func NewScheduleForm(fm *QuickAddForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&fm.Name).
				Validate(required("task text")),
			huh.NewInput().
				Title("Time (HH:MM, optional)").
				Value(&fm.Value).
				Validate(validTimeOfDay(true)),
			huh.NewSelect[constants.RecurrenceType]().
				Title("Repeat").
				Options(
					huh.NewOption("Never", constants.RecurrenceNone),
					huh.NewOption("Daily", constants.RecurrenceDaily),
					huh.NewOption("Weekly", constants.RecurrenceWeekly),
				).
				Value(&fm.Recurrence),
			huh.NewMultiSelect[time.Weekday]().
				Title("Weekly on").
				Description("For weekly repeats; empty uses the selected day").
				Options(weekdayOptions()...).
				Value(&fm.Days),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewClockForm creates a new form for adding world clock cities
func NewClockForm(fm *QuickAddForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("City").
				Value(&fm.Name).
				Validate(required("city name")),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, e.g. Europe/London").
				Value(&fm.Value).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(strings.TrimSpace(s)) {
						return fmt.Errorf("unknown timezone")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
