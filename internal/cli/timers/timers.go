package timers

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/service"
)

type TimerAddCmd struct {
	Name     string        `arg:"" optional:"" help:"Timer name."`
	Duration time.Duration `short:"d" help:"Timer length (e.g., 25m, 1h30m)." required:""`
	Start    bool          `help:"Start the timer immediately."`
}

func (c *TimerAddCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	t, err := app.Timers.Add(c.Name, c.Duration)
	if err != nil {
		return fmt.Errorf("failed to add timer: %w", err)
	}
	if c.Start {
		if t, err = app.Timers.Start(t.ID); err != nil {
			return fmt.Errorf("failed to start timer: %w", err)
		}
	}

	fmt.Printf("✓ Timer %q added (%s, %s)\n", t.Name, ctx.Formatter().Duration(t.DurationSec), t.State())
	fmt.Printf("  ID: %s\n", t.ID)
	return nil
}

type TimerListCmd struct{}

func (c *TimerListCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	list := app.Timers.List()
	if len(list) == 0 {
		fmt.Println("No timers.")
		return nil
	}

	f := ctx.Formatter()
	fmt.Printf("%-36s %-24s %-10s %-10s %-9s\n", "ID", "Name", "Duration", "Remaining", "State")
	fmt.Println(strings.Repeat("-", 93))
	for _, t := range list {
		fmt.Printf("%-36s %-24s %-10s %-10s %-9s\n",
			t.ID, cli.Truncate(t.Name, 24), f.Duration(t.DurationSec), f.Duration(t.RemainingSec), t.State())
	}
	return nil
}

// transition applies one state change to a timer and reports the result.
func transition(ctx *cli.Context, id, verb string, fn func(*service.Timers, string) (models.Timer, error)) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	t, err := fn(app.Timers, id)
	if err != nil {
		return fmt.Errorf("failed to %s timer: %w", verb, err)
	}
	fmt.Printf("✓ Timer %q is %s (%s left)\n", t.Name, t.State(), ctx.Formatter().Duration(t.RemainingSec))
	return nil
}

type TimerStartCmd struct {
	ID string `arg:"" help:"Timer ID."`
}

func (c *TimerStartCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, "start", (*service.Timers).Start)
}

type TimerPauseCmd struct {
	ID string `arg:"" help:"Timer ID."`
}

func (c *TimerPauseCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, "pause", (*service.Timers).Pause)
}

type TimerResumeCmd struct {
	ID string `arg:"" help:"Timer ID."`
}

func (c *TimerResumeCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, "resume", (*service.Timers).Resume)
}

type TimerResetCmd struct {
	ID string `arg:"" help:"Timer ID."`
}

func (c *TimerResetCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, "reset", (*service.Timers).Reset)
}

type TimerDeleteCmd struct {
	ID string `arg:"" help:"ID of the timer to delete."`
}

func (c *TimerDeleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Timers.Delete(c.ID); err != nil {
		return fmt.Errorf("failed to delete timer: %w", err)
	}
	fmt.Printf("✓ Timer %s deleted\n", c.ID)
	return nil
}
