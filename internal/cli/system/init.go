package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/config"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/store/postgres"
	"github.com/julianstephens/chronos/internal/store/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.SQLitePath()
	if c.Force && dbPath != "" {
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			if abs, err := filepath.Abs(dbPath); err == nil {
				dbPath = abs
			}
			if absSource, err := filepath.Abs(config.ExpandHome(c.Source)); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Backend.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	if dbPath != "" {
		fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.SQLitePath())
	} else {
		fmt.Printf("Initialized %s storage\n", constants.AppName)
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		n, err := migrateKeys(ctx.Backend, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Migration completed successfully! (%d keys)\n", n)
	}
	return nil
}

// openSource opens the backend a migration reads from.
func openSource(source string) (cli.Backend, error) {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(config.ExpandHome(source), 0), nil
}

// migrateKeys copies every feature key present in source into dst and
// returns how many were copied.
func migrateKeys(dst cli.Backend, source string) (int, error) {
	src, err := openSource(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	bg := context.Background()
	copied := 0
	for _, key := range constants.FeatureKeys {
		raw, ok, err := src.Get(bg, key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Put(bg, key, raw); err != nil {
			return copied, fmt.Errorf("failed to write %s to destination: %w", key, err)
		}
		fmt.Printf("  Migrated %s\n", key)
		copied++
	}
	return copied, nil
}
