package settings

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	TimeFormat *string `help:"Clock display: 12h or 24h."`
	Theme      *string `help:"Color theme: light, dark or system."`
	Language   *string `help:"Language code for dates (en, es, fr, de, ja)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	if c.List {
		settings := app.Settings.Get()
		fmt.Println("Current Settings:")
		fmt.Printf("  Time Format:  %s\n", settings.TimeFormat)
		fmt.Printf("  Theme:        %s\n", settings.Theme)
		fmt.Printf("  Language:     %s\n", settings.Language)
		fmt.Printf("  Sample clock: %s\n", ctx.Formatter().Clock(app.Now()))
		return nil
	}

	changes := []struct {
		name  string
		value *string
	}{
		{constants.SettingTimeFormat, c.TimeFormat},
		{constants.SettingTheme, c.Theme},
		{constants.SettingLanguage, c.Language},
	}

	updated := false
	for _, ch := range changes {
		if ch.value == nil {
			continue
		}
		if _, err := app.Settings.Set(ch.name, *ch.value); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
