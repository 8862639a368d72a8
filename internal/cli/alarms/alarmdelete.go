package alarms

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
)

type AlarmDeleteCmd struct {
	ID string `arg:"" help:"ID of the alarm to delete."`
}

func (c *AlarmDeleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Alarms.Delete(c.ID); err != nil {
		return fmt.Errorf("failed to delete alarm: %w", err)
	}
	fmt.Printf("✓ Alarm %s deleted\n", c.ID)
	return nil
}

type AlarmToggleCmd struct {
	ID string `arg:"" help:"ID of the alarm to enable or disable."`
}

func (c *AlarmToggleCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	alarm, err := app.Alarms.Toggle(c.ID)
	if err != nil {
		return fmt.Errorf("failed to toggle alarm: %w", err)
	}
	state := "disabled"
	if alarm.Active {
		state = "enabled"
	}
	fmt.Printf("✓ Alarm %s %s\n", alarm.ID, state)
	return nil
}
