package alarms

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/utils"
)

// AlarmCheckCmd reports which alarms would ring at a given instant without
// changing any state.
type AlarmCheckCmd struct {
	At string `help:"Instant to check (RFC3339 or YYYY-MM-DD). Defaults to now."`
}

func (c *AlarmCheckCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	at := app.Now()
	if c.At != "" {
		at, err = utils.ParseDateOrInstant(c.At, ctx.Location())
		if err != nil {
			return err
		}
		at = at.In(ctx.Location())
	}

	due := app.Alarms.Due(at)
	if len(due) == 0 {
		fmt.Printf("No alarms due at %s\n", ctx.Formatter().Clock(at))
		return nil
	}
	fmt.Printf("Alarms due at %s:\n", ctx.Formatter().Clock(at))
	for _, a := range due {
		label := a.Label
		if label == "" {
			label = "(no label)"
		}
		fmt.Printf("  🔔 %s  %s  [%s]\n", ctx.Formatter().TimeOfDay(a.Time), label, a.ID)
	}
	return nil
}
