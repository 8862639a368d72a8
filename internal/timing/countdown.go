// Package timing projects remaining and elapsed durations for countdowns,
// timers and stopwatches from wall-clock time.
package timing

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

// Breakdown is a non-negative duration split into whole units.
type Breakdown struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Decompose truncates d into days, hours, minutes and seconds. Negative
// durations decompose to zero.
func Decompose(d time.Duration) Breakdown {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Breakdown{
		Days:    ms / 86400000,
		Hours:   (ms % 86400000) / 3600000,
		Minutes: (ms % 3600000) / 60000,
		Seconds: (ms % 60000) / 1000,
	}
}

// String renders b as "3d 04:05:06", omitting the day part when zero.
func (b Breakdown) String() string {
	if b.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", b.Days, b.Hours, b.Minutes, b.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", b.Hours, b.Minutes, b.Seconds)
}

// Target parses c's target instant. A malformed target is treated as now.
func Target(c models.Countdown, now time.Time) time.Time {
	return utils.InstantOr(c.Target, now)
}

// Remaining returns max(0, target - now).
func Remaining(c models.Countdown, now time.Time) time.Duration {
	d := Target(c, now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Finished reports whether c's target has been reached.
func Finished(c models.Countdown, now time.Time) bool {
	return Remaining(c, now) == 0
}

// SortCountdowns orders unfinished countdowns before finished ones, each
// group by target ascending. The input is not modified.
func SortCountdowns(list []models.Countdown, now time.Time) []models.Countdown {
	out := make([]models.Countdown, len(list))
	copy(out, list)

	targets := make(map[string]time.Time, len(out))
	for _, c := range out {
		targets[c.ID] = Target(c, now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := Finished(out[i], now), Finished(out[j], now)
		if fi != fj {
			return !fi
		}
		return targets[out[i].ID].Before(targets[out[j].ID])
	})
	return out
}
