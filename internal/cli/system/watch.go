package system

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/runloop"
)

// WatchCmd runs the due-event loop headless, delivering alarm and timer
// notifications until interrupted.
type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	loop := runloop.New(ctx.GetConfig().Tick, app.Now)
	cancel, err := app.RegisterLoops(loop)
	if err != nil {
		return fmt.Errorf("failed to register loops: %w", err)
	}
	defer cancel()

	unsubscribe := app.Alarms.Subscribe(func(list []models.Alarm) {
		logger.Debug("Alarm list changed", "count", len(list))
	})
	defer unsubscribe()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	tasks := loop.Tasks()
	slices.Sort(tasks)
	loop.Start()
	fmt.Printf("Watching %d alarm(s) and %d timer(s) (tasks: %s). Press Ctrl+C to stop.\n",
		len(app.Alarms.List()), len(app.Timers.List()), strings.Join(tasks, ", "))

	<-sig
	fmt.Println("\nStopping...")
	loop.Stop()
	return nil
}
