package calendar

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/ical"
)

type ExportCmd struct {
	Output string `short:"o" help:"Output file (defaults to stdout)." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	items := app.Schedule.All()
	countdowns := app.Countdowns.List()
	if err := ical.Export(w, items, countdowns, app.Now()); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("✓ Exported %d tasks and %d countdowns to %s\n", len(items), len(countdowns), c.Output)
	}
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"iCalendar (.ics) file to import." type:"existingfile"`
	DryRun bool   `help:"Parse and show the tasks without saving them."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	items, err := ical.Import(f, ctx.Location())
	if err != nil {
		return err
	}

	if c.DryRun {
		for _, it := range items {
			kind := "once"
			if it.IsTemplate() {
				kind = string(it.RecurrenceType)
			}
			fmt.Printf("  %s %-6s %-8s %s\n", it.Date, it.Time, kind, it.Text)
		}
		fmt.Printf("%d tasks would be imported.\n", len(items))
		return nil
	}

	ctx.PerformAutomaticBackup()
	n, err := app.Schedule.Import(items)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("✓ Imported %d tasks from %s\n", n, c.File)
	return nil
}
