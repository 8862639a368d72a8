package schedule

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/service"
)

type ScheduleCompleteCmd struct {
	ID string `arg:"" help:"Task ID (occurrence IDs look like <template-id>-YYYY-MM-DD)."`
}

func (c *ScheduleCompleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	it, err := app.Schedule.ToggleComplete(c.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if it.Completed {
		fmt.Printf("✓ Completed %q (%s)\n", it.Text, it.Date)
	} else {
		fmt.Printf("✓ Reopened %q (%s)\n", it.Text, it.Date)
	}
	return nil
}

type ScheduleEditCmd struct {
	ID         string  `arg:"" help:"Task ID."`
	Text       *string `help:"New task text."`
	Time       *string `short:"t" help:"New time of day (HH:MM, empty to clear)."`
	Notes      *string `short:"n" help:"New notes."`
	Difficulty *string `help:"New difficulty (easy|medium|hard)."`
}

func (c *ScheduleEditCmd) Run(ctx *cli.Context) error {
	patch := service.ItemPatch{Text: c.Text, Time: c.Time, Notes: c.Notes}
	if c.Difficulty != nil {
		d := constants.Difficulty(*c.Difficulty)
		patch.Difficulty = &d
	}
	if patch == (service.ItemPatch{}) {
		fmt.Println("No changes specified.")
		return nil
	}

	app, err := ctx.App()
	if err != nil {
		return err
	}
	it, err := app.Schedule.Edit(c.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to edit task: %w", err)
	}
	fmt.Printf("✓ Updated %q (%s)\n", it.Text, it.Date)
	return nil
}

type ScheduleDeleteCmd struct {
	ID string `arg:"" help:"Task, template or occurrence ID."`
}

func (c *ScheduleDeleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Schedule.Delete(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("✓ Deleted %s\n", c.ID)
	return nil
}

type ScheduleDetachCmd struct {
	ID string `arg:"" help:"Occurrence ID to turn into a standalone task."`
}

func (c *ScheduleDetachCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	it, err := app.Schedule.Detach(c.ID)
	if err != nil {
		return fmt.Errorf("failed to detach occurrence: %w", err)
	}
	fmt.Printf("✓ Detached %q on %s\n", it.Text, it.Date)
	fmt.Printf("  ID: %s\n", it.ID)
	return nil
}
