package countdowns

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/timing"
	"github.com/julianstephens/chronos/internal/utils"
)

type CountdownAddCmd struct {
	Name  string `arg:"" help:"Countdown name."`
	At    string `help:"Target date or instant (YYYY-MM-DD or RFC3339)." required:""`
	Emoji string `help:"Emoji shown next to the countdown."`
}

func (c *CountdownAddCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	target, err := utils.ParseDateOrInstant(c.At, ctx.Location())
	if err != nil {
		return fmt.Errorf("invalid target %q (expected YYYY-MM-DD or RFC3339)", c.At)
	}

	cd, err := app.Countdowns.Add(c.Name, target, c.Emoji)
	if err != nil {
		return fmt.Errorf("failed to add countdown: %w", err)
	}
	fmt.Printf("✓ Countdown %q added (%s to go)\n", cd.Name, timing.Decompose(timing.Remaining(cd, app.Now())))
	fmt.Printf("  ID: %s\n", cd.ID)
	return nil
}

type CountdownListCmd struct{}

func (c *CountdownListCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	list := app.Countdowns.List()
	if len(list) == 0 {
		fmt.Println("No countdowns.")
		return nil
	}

	now := app.Now()
	f := ctx.Formatter()
	fmt.Printf("%-36s %-28s %-22s %-20s\n", "ID", "Name", "Target", "Remaining")
	fmt.Println(strings.Repeat("-", 110))
	for _, cd := range list {
		name := cd.Name
		if cd.Emoji != "" {
			name = cd.Emoji + " " + name
		}
		target := timing.Target(cd, now).In(ctx.Location())
		remaining := timing.Decompose(timing.Remaining(cd, now)).String()
		if timing.Finished(cd, now) {
			remaining = "done"
		}
		fmt.Printf("%-36s %-28s %-22s %-20s\n",
			cd.ID, cli.Truncate(name, 28), f.Date(target), remaining)
	}
	return nil
}

type CountdownDeleteCmd struct {
	ID string `arg:"" help:"ID of the countdown to delete."`
}

func (c *CountdownDeleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Countdowns.Delete(c.ID); err != nil {
		return fmt.Errorf("failed to delete countdown: %w", err)
	}
	fmt.Printf("✓ Countdown %s deleted\n", c.ID)
	return nil
}
