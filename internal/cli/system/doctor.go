package system

import (
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/chronos/internal/backup"
	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/keyring"
	"github.com/julianstephens/chronos/internal/migration"
	"github.com/julianstephens/chronos/internal/runloop"
	"github.com/julianstephens/chronos/internal/store/postgres"
	"github.com/julianstephens/chronos/internal/utils"
	"github.com/julianstephens/chronos/internal/validation"
	"github.com/julianstephens/chronos/migrations"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warn checks never fail the command.
	warn bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Tick schedule", run: checkTickSpec},
	{name: "OS keyring", run: checkKeyring, warn: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Some checks failed. Please review the errors above.")
		return fmt.Errorf("diagnostics failed")
	}
	fmt.Println("All checks passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if _, err := ctx.App(); err != nil {
		return err
	}
	db, err := database(ctx)
	if err != nil {
		return err
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func database(ctx *cli.Context) (*sql.DB, error) {
	b, ok := ctx.Backend.(interface{ GetDB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("backend does not expose a database connection")
	}
	db := b.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return db, nil
}

func runner(ctx *cli.Context) (*migration.Runner, error) {
	db, err := database(ctx)
	if err != nil {
		return nil, err
	}
	var (
		sub     fs.FS
		dialect = migration.SQLite
	)
	if _, ok := ctx.Backend.(*postgres.Store); ok {
		sub, err = migrations.Postgres()
		dialect = migration.Postgres
	} else {
		sub, err = migrations.SQLite()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations: %w", err)
	}
	return migration.NewRunnerWithDialect(db, sub, dialect), nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	return r.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}

	st, err := r.Status()
	if err != nil {
		return fmt.Errorf("failed to read schema status: %w", err)
	}
	if st.Current < st.Latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (%d pending)", st.Current, st.Latest, len(st.Pending))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.SQLitePath()
	if path == "" {
		return fmt.Errorf("backups are only managed for sqlite storage")
	}
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'chronos backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	result := validation.New().Validate(snapshot(app), app.Now())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'chronos validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.GetConfig().Timezone); err != nil {
		return fmt.Errorf("configured timezone %q: %w", ctx.GetConfig().Timezone, err)
	}
	return nil
}

func checkTickSpec(ctx *cli.Context) error {
	return runloop.ValidateSpec(ctx.GetConfig().Tick)
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
