package alarms

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
)

type AlarmListCmd struct{}

func (c *AlarmListCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	list := app.Alarms.List()
	if len(list) == 0 {
		fmt.Println("No alarms configured.")
		return nil
	}

	f := ctx.Formatter()
	fmt.Printf("%-36s %-9s %-24s %-20s %-6s %-24s\n", "ID", "Time", "Label", "Days", "Active", "Next")
	fmt.Println(strings.Repeat("-", 124))

	for _, a := range list {
		active := "Yes"
		if !a.Active {
			active = "No"
		}
		next := "-"
		if t, ok := app.Alarms.Next(a); ok {
			next = fmt.Sprintf("%s %s", t.Format(constants.DateFormat), f.TimeOfDay(t.Format(constants.TimeFormat)))
		}
		fmt.Printf("%-36s %-9s %-24s %-20s %-6s %-24s\n",
			a.ID, f.TimeOfDay(a.Time), cli.Truncate(a.Label, 24), cli.Truncate(a.FormatDays(), 20), active, next)
	}
	return nil
}
