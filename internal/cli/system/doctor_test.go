package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/chronos/internal/backup"
	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/store/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	backend := sqlite.NewStore(dbPath, 0)
	if err := backend.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	cfg := config.DefaultConfig(tempDir)
	cfg.Timezone = "UTC"
	ctx := &cli.Context{Config: cfg, Backend: backend}

	cleanup := func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, backend, cleanup
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	// Missing backups and keyring are warnings, not failures
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, backend, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := backup.NewManager(backend.GetConfigPath()).Create(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("expected backups to be found: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed: %v", err)
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	tempDir := t.TempDir()
	ctx := &cli.Context{
		Config:  config.DefaultConfig(tempDir),
		Backend: sqlite.NewStore(filepath.Join(tempDir, "missing.db"), 0),
	}
	defer ctx.Close()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail when the database does not exist")
	}
}

func TestDoctorCmd_BadConfig(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx.Config.Tick = "not a schedule"
	if err := checkTickSpec(ctx); err == nil {
		t.Error("expected invalid tick spec to fail")
	}

	ctx.Config.Tick = "*/5 * * * * *"
	if err := checkTickSpec(ctx); err != nil {
		t.Errorf("valid tick spec rejected: %v", err)
	}

	ctx.Config.Timezone = "Mars/Olympus_Mons"
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("expected unknown timezone to fail")
	}
}

func TestCheckMigrationsComplete(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if err := checkDBReachable(ctx); err != nil {
		t.Fatalf("database not reachable: %v", err)
	}
	if err := checkSchemaVersion(ctx); err != nil {
		t.Errorf("schema version check failed: %v", err)
	}
	if err := checkMigrationsComplete(ctx); err != nil {
		t.Errorf("migrations check failed: %v", err)
	}
}
