package timers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/models"
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

func TestTimerLifecycle(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&TimerAddCmd{Name: "Tea", Duration: 3 * time.Minute}).Run(ctx); err != nil {
		t.Fatalf("timer add failed: %v", err)
	}
	app, _ := ctx.App()
	list := app.Timers.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 timer, got %d", len(list))
	}
	id := list[0].ID
	if list[0].DurationSec != 180 || list[0].State() != models.TimerIdle {
		t.Errorf("unexpected timer: %+v", list[0])
	}

	steps := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
		want models.TimerState
	}{
		{"start", &TimerStartCmd{ID: id}, models.TimerRunning},
		{"pause", &TimerPauseCmd{ID: id}, models.TimerPaused},
		{"resume", &TimerResumeCmd{ID: id}, models.TimerRunning},
		{"reset", &TimerResetCmd{ID: id}, models.TimerIdle},
	}
	for _, step := range steps {
		if err := step.cmd.Run(ctx); err != nil {
			t.Fatalf("%s failed: %v", step.name, err)
		}
		got := app.Timers.List()[0]
		if got.State() != step.want {
			t.Errorf("after %s: state = %s, want %s", step.name, got.State(), step.want)
		}
	}

	if err := (&TimerListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&TimerDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(app.Timers.List()) != 0 {
		t.Error("expected timer to be deleted")
	}
}

func TestTimerAddCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&TimerAddCmd{Name: "Zero"}).Run(ctx); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := (&TimerAddCmd{Duration: 500 * time.Millisecond}).Run(ctx); err == nil {
		t.Error("expected error for sub-second duration")
	}
}

func TestTimerAddCmd_StartImmediately(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&TimerAddCmd{Duration: time.Minute, Start: true}).Run(ctx); err != nil {
		t.Fatalf("timer add failed: %v", err)
	}
	app, _ := ctx.App()
	got := app.Timers.List()[0]
	if got.Name != "Timer" {
		t.Errorf("expected default name, got %q", got.Name)
	}
	if got.State() != models.TimerRunning {
		t.Errorf("expected running timer, got %s", got.State())
	}
}

func TestTimerActions_UnknownID(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&TimerStartCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected error for unknown timer")
	}
}
