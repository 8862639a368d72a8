package system

import (
	"fmt"

	"github.com/julianstephens/chronos/internal/cli"
	"github.com/julianstephens/chronos/internal/notifier"
)

// NotifyCmd sends a test notification straight to the configured sink,
// bypassing the enabled setting.
type NotifyCmd struct {
	Message string `arg:"" optional:"" default:"chronos test notification" help:"Text to send."`
	Sound   string `help:"Alarm sound name to play." default:"classic"`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	ev := notifier.Event{Label: c.Message, Sound: c.Sound}
	if c.DryRun {
		fmt.Printf("Would send: %s (sound: %s)\n", ev.Text(), ev.Sound)
		return nil
	}
	if !ctx.GetConfig().Notifications.Enabled {
		fmt.Println("ℹ Notifications are disabled in config; sending anyway")
	}

	sink := ctx.Sink
	if sink == nil {
		sink = notifier.Log{}
	}
	if err := sink.Notify(ev); err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
