package alarms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

type AlarmAddCmd struct {
	Time        string `arg:"" optional:"" help:"Alarm time (HH:MM)."`
	Label       string `help:"Alarm label."`
	Days        string `help:"Comma-separated weekdays to repeat on (e.g., mon,wed,fri). Empty rings once."`
	Sound       string `help:"Alarm sound." default:"classic"`
	SnoozeMin   int    `help:"Snooze length in minutes." default:"5"`
	NoSnooze    bool   `help:"Disable snooze for this alarm."`
	Interactive bool   `short:"i" help:"Fill in the alarm with an interactive form."`
}

func (c *AlarmAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.prompt(); err != nil {
			return err
		}
	}
	if c.Time == "" {
		return fmt.Errorf("alarm time is required (HH:MM)")
	}

	days, err := cli.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	app, err := ctx.App()
	if err != nil {
		return err
	}

	alarm, err := app.Alarms.Add(models.Alarm{
		Time:          c.Time,
		Label:         c.Label,
		Sound:         c.Sound,
		SnoozeEnabled: !c.NoSnooze,
		SnoozeMinutes: c.SnoozeMin,
		Days:          days,
	})
	if err != nil {
		return fmt.Errorf("failed to add alarm: %w", err)
	}

	fmt.Printf("✓ Alarm set for %s (%s)\n", ctx.Formatter().TimeOfDay(alarm.Time), alarm.FormatDays())
	fmt.Printf("  ID: %s\n", alarm.ID)
	if next, ok := app.Alarms.Next(alarm); ok {
		fmt.Printf("  Next: %s %s\n", ctx.Formatter().Date(next), ctx.Formatter().TimeOfDay(next.Format(constants.TimeFormat)))
	}
	return nil
}

func (c *AlarmAddCmd) prompt() error {
	snooze := strconv.Itoa(c.SnoozeMin)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&c.Time).
				Validate(func(s string) error {
					if _, err := utils.ParseTimeOfDay(s).Get(); err != nil {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Label").
				Value(&c.Label),
			huh.NewInput().
				Title("Days").
				Description("Comma-separated weekdays, leave empty to ring once").
				Value(&c.Days).
				Validate(func(s string) error {
					_, err := cli.ParseWeekdays(s)
					return err
				}),
			huh.NewInput().
				Title("Snooze (minutes)").
				Value(&snooze).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("snooze must be a positive number")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	c.SnoozeMin, _ = strconv.Atoi(strings.TrimSpace(snooze))
	return nil
}
