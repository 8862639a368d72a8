// Package notifier delivers alarm and timer notifications. Delivery is
// best effort: failures are logged and never reach the caller.
package notifier

import (
	"fmt"
	"io"
	"sync"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/logger"
)

// Event is one due or finished transition.
type Event struct {
	Kind     constants.NotificationKind
	EntityID string
	Label    string
	Sound    string
}

// Text renders the event for display.
func (e Event) Text() string {
	switch e.Kind {
	case constants.NotifyAlarm:
		if e.Label == "" {
			return "Alarm"
		}
		return "Alarm: " + e.Label
	case constants.NotifyTimer:
		if e.Label == "" {
			return "Timer finished"
		}
		return "Timer finished: " + e.Label
	default:
		return e.Label
	}
}

// Sink delivers an event somewhere.
type Sink interface {
	Notify(Event) error
}

// Fallback tries Primary and falls back to Secondary when it fails.
type Fallback struct {
	Primary   Sink
	Secondary Sink
}

func (f Fallback) Notify(ev Event) error {
	err := f.Primary.Notify(ev)
	if err == nil {
		return nil
	}
	logger.Debug("Primary notification sink failed, falling back", "error", err)
	return f.Secondary.Notify(ev)
}

// Bell rings the terminal bell and prints the event text.
type Bell struct {
	W io.Writer
}

func (b Bell) Notify(ev Event) error {
	_, err := fmt.Fprintf(b.W, "\a%s\n", ev.Text())
	return err
}

// Log records the event in the application log only.
type Log struct{}

func (Log) Notify(ev Event) error {
	logger.Info("Notification", "kind", ev.Kind, "id", ev.EntityID, "label", ev.Label)
	return nil
}

// Dispatcher sends events asynchronously so a slow or failing sink never
// blocks a tick.
type Dispatcher struct {
	sink    Sink
	enabled bool
	wg      sync.WaitGroup
}

func NewDispatcher(sink Sink, enabled bool) *Dispatcher {
	return &Dispatcher{sink: sink, enabled: enabled}
}

// Send delivers ev in the background. Errors are logged.
func (d *Dispatcher) Send(ev Event) {
	if d == nil || !d.enabled || d.sink == nil {
		logger.Debug("Notification suppressed", "kind", ev.Kind, "id", ev.EntityID)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sink.Notify(ev); err != nil {
			logger.Warn("Notification delivery failed", "kind", ev.Kind, "id", ev.EntityID, "error", err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}
