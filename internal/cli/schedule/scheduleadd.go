package schedule

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

type ScheduleAddCmd struct {
	Text       string `arg:"" help:"Task text."`
	Date       string `help:"Date (YYYY-MM-DD, 'today' or 'tomorrow'). For a recurring task, the first day." default:"today"`
	Time       string `short:"t" help:"Time of day (HH:MM)."`
	Notes      string `short:"n" help:"Free-form notes."`
	Difficulty string `help:"Difficulty (easy|medium|hard)." enum:",easy,medium,hard" default:""`
	Repeat     string `short:"r" help:"Recurrence (daily|weekly)." enum:",daily,weekly" default:""`
	Days       string `short:"w" help:"Comma-separated weekdays for weekly recurrence."`
	Until      string `help:"Last date of the recurrence (YYYY-MM-DD)."`
}

func (c *ScheduleAddCmd) Validate() error {
	if c.Repeat == string(constants.RecurrenceWeekly) && c.Days == "" {
		return fmt.Errorf("weekdays must be specified for weekly recurrence")
	}
	if c.Repeat == "" && (c.Days != "" || c.Until != "") {
		return fmt.Errorf("--days and --until require --repeat")
	}
	return nil
}

func (c *ScheduleAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	days, err := cli.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}

	app, err := ctx.App()
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, app.Now())
	if err != nil {
		return err
	}

	item, err := app.Schedule.Add(models.ScheduleItem{
		Text:              c.Text,
		Date:              utils.DateString(date),
		Time:              c.Time,
		Notes:             c.Notes,
		Difficulty:        constants.Difficulty(c.Difficulty),
		RecurrenceType:    constants.RecurrenceType(c.Repeat),
		RecurrenceDays:    days,
		RecurrenceEndDate: c.Until,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("✓ Added %q on %s", item.Text, item.Date)
	if item.Time != "" {
		fmt.Printf(" at %s", ctx.Formatter().TimeOfDay(item.Time))
	}
	if item.IsTemplate() {
		fmt.Printf(" (%s)", FormatRecurrence(item))
	}
	fmt.Println()
	fmt.Printf("  ID: %s\n", item.ID)
	return nil
}
