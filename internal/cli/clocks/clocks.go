package clocks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chronos/internal/cli"
)

type ClockAddCmd struct {
	Name     string `arg:"" help:"City name."`
	Timezone string `arg:"" help:"IANA timezone (e.g., Asia/Tokyo)."`
}

func (c *ClockAddCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	city, err := app.Clocks.Add(c.Name, c.Timezone)
	if err != nil {
		return fmt.Errorf("failed to add city: %w", err)
	}
	fmt.Printf("✓ Added %s (%s)\n", city.Name, city.Timezone)
	fmt.Printf("  ID: %s\n", city.ID)
	return nil
}

type ClockListCmd struct{}

func (c *ClockListCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	f := ctx.Formatter()
	fmt.Printf("%-36s %-20s %-24s %-12s %-8s %-6s\n", "ID", "City", "Timezone", "Time", "Offset", "Day")
	fmt.Println(strings.Repeat("-", 111))
	for _, r := range app.Clocks.Readings(app.Now()) {
		day := ""
		switch r.DayDelta {
		case 1:
			day = "+1"
		case -1:
			day = "-1"
		}
		fmt.Printf("%-36s %-20s %-24s %-12s %-8s %-6s\n",
			r.City.ID, cli.Truncate(r.City.Name, 20), r.City.Timezone, f.Clock(r.Time), f.Offset(r.OffsetSec), day)
	}
	return nil
}

type ClockDeleteCmd struct {
	ID string `arg:"" help:"ID of the city to remove."`
}

func (c *ClockDeleteCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Clocks.Remove(c.ID); err != nil {
		return fmt.Errorf("failed to remove city: %w", err)
	}
	fmt.Printf("✓ City %s removed\n", c.ID)
	return nil
}
