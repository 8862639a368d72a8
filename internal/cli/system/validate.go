package system

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/service"
	"github.com/julianstephens/chronos/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Automatically remove orphaned schedule exceptions."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	result := validation.New().Validate(snapshot(app), app.Now())
	if !result.HasConflicts() {
		fmt.Println("✓ No conflicts detected")
		return nil
	}
	fmt.Print(result.FormatReport())

	if !c.Fix {
		return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
	}

	ctx.PerformAutomaticBackup()
	actions := validation.AutoFixOrphans(result.Conflicts, app.Schedule.Delete)
	if len(actions) == 0 {
		fmt.Println("\nNo automatic fixes available.")
		return nil
	}
	fmt.Println("\nApplied fixes:")
	for _, a := range actions {
		fmt.Printf("  - %s\n", a.Action)
	}
	return nil
}

func snapshot(app *service.App) validation.Snapshot {
	return validation.Snapshot{
		Alarms:     app.Alarms.List(),
		Timers:     app.Timers.List(),
		Countdowns: app.Countdowns.List(),
		Schedule:   app.Schedule.All(),
		Cities:     app.Clocks.List(),
	}
}
