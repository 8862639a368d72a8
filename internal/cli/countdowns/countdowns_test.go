package countdowns

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/config"
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

func TestCountdownCommands(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	future := time.Now().AddDate(1, 0, 0).UTC().Format(time.RFC3339)
	if err := (&CountdownAddCmd{Name: "Launch", At: future, Emoji: "🚀"}).Run(ctx); err != nil {
		t.Fatalf("countdown add failed: %v", err)
	}
	if err := (&CountdownAddCmd{Name: "Trip", At: time.Now().AddDate(0, 2, 0).Format("2006-01-02")}).Run(ctx); err != nil {
		t.Fatalf("countdown add with date failed: %v", err)
	}

	app, _ := ctx.App()
	list := app.Countdowns.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 countdowns, got %d", len(list))
	}
	if list[0].Name != "Trip" {
		t.Errorf("expected nearest countdown first, got %q", list[0].Name)
	}

	if err := (&CountdownListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&CountdownDeleteCmd{ID: list[0].ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if n := len(app.Countdowns.List()); n != 1 {
		t.Errorf("expected 1 countdown after delete, got %d", n)
	}
}

func TestCountdownAddCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&CountdownAddCmd{Name: "Past", At: "2001-01-01"}).Run(ctx); err == nil {
		t.Error("expected error for past target")
	}
	if err := (&CountdownAddCmd{Name: "Bad", At: "soon"}).Run(ctx); err == nil {
		t.Error("expected error for malformed target")
	}
	if err := (&CountdownAddCmd{At: "2099-01-01"}).Run(ctx); err == nil {
		t.Error("expected error for empty name")
	}
}
