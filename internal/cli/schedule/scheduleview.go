package schedule

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

// FormatRecurrence formats a template's recurrence into a human-readable string
func FormatRecurrence(it models.ScheduleItem) string {
	var s string
	switch it.RecurrenceType {
	case constants.RecurrenceDaily:
		s = "daily"
	case constants.RecurrenceWeekly:
		days := make([]string, len(it.RecurrenceDays))
		for i, wd := range it.RecurrenceDays {
			days[i] = wd.String()[:3]
		}
		s = "weekly on " + strings.Join(days, ",")
	default:
		return "once"
	}
	if it.RecurrenceEndDate != "" {
		s += " until " + it.RecurrenceEndDate
	}
	return s
}

func printItems(f utils.Formatter, items []models.ScheduleItem) {
	fmt.Printf("%-3s %-8s %-40s %-8s %-47s\n", "", "Time", "Task", "Level", "ID")
	fmt.Println(strings.Repeat("-", 110))
	for _, it := range items {
		check := "[ ]"
		if it.Completed {
			check = "[✓]"
		}
		tod := "--"
		if it.Time != "" {
			tod = f.TimeOfDay(it.Time)
		}
		text := it.Text
		if it.TemplateID != "" {
			text = "↻ " + text
		}
		fmt.Printf("%-3s %-8s %-40s %-8s %-47s\n", check, tod, cli.Truncate(text, 40), it.Difficulty, it.ID)
	}
}

type ScheduleDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *ScheduleDayCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, app.Now())
	if err != nil {
		return err
	}

	f := ctx.Formatter()
	items := app.Schedule.Day(date)
	fmt.Printf("Schedule for %s\n\n", f.Date(date))
	if len(items) == 0 {
		fmt.Println("Nothing scheduled.")
		return nil
	}
	printItems(f, items)

	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	fmt.Printf("\n%d/%d completed\n", done, len(items))
	return nil
}

type ScheduleRangeCmd struct {
	From string `help:"First date (YYYY-MM-DD or 'today')." default:"today"`
	Days int    `help:"Number of days to show." default:"7"`
}

func (c *ScheduleRangeCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	from, err := cli.ParseDate(c.From, app.Now())
	if err != nil {
		return err
	}
	to := from.AddDate(0, 0, c.Days-1)

	f := ctx.Formatter()
	byDate := make(map[string][]models.ScheduleItem)
	for _, it := range app.Schedule.Range(from, to) {
		byDate[it.Date] = append(byDate[it.Date], it)
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		items := byDate[utils.DateString(d)]
		fmt.Printf("%s (%d)\n", f.Date(d), len(items))
		for _, it := range items {
			check := " "
			if it.Completed {
				check = "✓"
			}
			tod := "     "
			if it.Time != "" {
				tod = f.TimeOfDay(it.Time)
			}
			fmt.Printf("  %s %s  %s\n", check, tod, it.Text)
		}
	}
	return nil
}

type ScheduleTemplatesCmd struct{}

func (c *ScheduleTemplatesCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	templates := app.Schedule.Templates()
	if len(templates) == 0 {
		fmt.Println("No recurring tasks.")
		return nil
	}

	fmt.Printf("%-36s %-30s %-12s %-30s\n", "ID", "Task", "Starts", "Recurrence")
	fmt.Println(strings.Repeat("-", 110))
	for _, it := range templates {
		fmt.Printf("%-36s %-30s %-12s %-30s\n",
			it.ID, cli.Truncate(it.Text, 30), it.Date, cli.Truncate(FormatRecurrence(it), 30))
	}
	return nil
}
