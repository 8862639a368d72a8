package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/store/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	backend := sqlite.NewStore(filepath.Join(tempDir, "test.db"), 0)
	if err := backend.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := &cli.Context{Config: config.DefaultConfig(tempDir), Backend: backend}
	return ctx, func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	format := "12h"
	lang := "de"
	if err := (&SettingsCmd{TimeFormat: &format, Language: &lang}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	app, _ := ctx.App()
	got := app.Settings.Get()
	if got.TimeFormat != constants.TimeDisplay12h {
		t.Errorf("expected 12h, got %s", got.TimeFormat)
	}
	if got.Language != "de" {
		t.Errorf("expected de, got %s", got.Language)
	}
	if got.Theme != constants.DefaultTheme {
		t.Errorf("theme should be untouched, got %s", got.Theme)
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	theme := "neon"
	if err := (&SettingsCmd{Theme: &theme}).Run(ctx); err == nil {
		t.Error("expected error for invalid theme")
	}
	app, _ := ctx.App()
	if app.Settings.Get().Theme != constants.DefaultTheme {
		t.Error("invalid value must not be stored")
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings without flags failed: %v", err)
	}
}
