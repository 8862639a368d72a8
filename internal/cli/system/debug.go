package system

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/store"
)

type DebugCmd struct {
	DBPath  *DebugDBPathCmd  `cmd:"" help:"Show database path."`
	Keys    *DebugKeysCmd    `cmd:"" help:"List stored keys."`
	Dump    *DebugDumpCmd    `cmd:"" help:"Dump the value stored under a key as JSON."`
	History *DebugHistoryCmd `cmd:"" help:"Show superseded values of a key."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"backend": "postgres",
		"path":    "",
		"log":     logger.Path(),
	}
	if path := ctx.SQLitePath(); path != "" {
		output["backend"] = "sqlite"
		output["path"] = path
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	lister, ok := ctx.Backend.(interface {
		Keys(context.Context) (map[string]string, error)
	})
	if !ok {
		// Fall back to probing the known feature keys.
		for _, key := range constants.FeatureKeys {
			if _, found, err := ctx.Backend.Get(context.Background(), key); err == nil && found {
				fmt.Println(key)
			}
		}
		return nil
	}

	keys, err := lister.Keys(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	slices.Sort(names)

	fmt.Printf("%-15s %s\n", "KEY", "UPDATED")
	fmt.Printf("%-15s %s\n", "---", "-------")
	for _, k := range names {
		fmt.Printf("%-15s %s\n", k, keys[k])
	}
	return nil
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Store key to dump (alarms, timers, countdowns, schedule, world-clock, settings, stats)."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	raw, ok, err := ctx.Backend.Get(context.Background(), cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Key, err)
	}
	if !ok {
		return fmt.Errorf("no value stored for key: %s", cmd.Key)
	}
	return printJSON(raw)
}

type DebugHistoryCmd struct {
	Key   string `arg:"" help:"Store key to inspect."`
	Limit int    `help:"Maximum number of revisions to show." default:"5"`
}

func (cmd *DebugHistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	h, ok := ctx.Backend.(store.Historian)
	if !ok {
		return fmt.Errorf("backend does not keep history")
	}

	revs, err := h.History(context.Background(), cmd.Key, cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(revs) == 0 {
		fmt.Printf("No history for key: %s\n", cmd.Key)
		return nil
	}
	for _, r := range revs {
		fmt.Printf("# rev %d replaced %s\n", r.Rev, r.ReplacedAt.Local().Format(time.RFC3339))
		if err := printJSON(r.Value); err != nil {
			fmt.Println(string(r.Value))
		}
	}
	return nil
}

func printJSON(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("stored value is not valid JSON: %w", err)
	}
	fmt.Println(buf.String())
	return nil
}
