package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/recurrence"
	"github.com/julianstephens/chronos/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidAlarm        ConflictType = "invalid_alarm"
	ConflictInvalidTimer        ConflictType = "invalid_timer"
	ConflictInvalidCountdown    ConflictType = "invalid_countdown"
	ConflictInvalidScheduleItem ConflictType = "invalid_schedule_item"
	ConflictInvalidCity         ConflictType = "invalid_city"
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictOrphanInstance      ConflictType = "orphan_instance"
	ConflictDoubleBooked        ConflictType = "double_booked"
	ConflictDuplicateAlarm      ConflictType = "duplicate_alarm"
)

// Conflict represents a problem found in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	IDs         []string // IDs of the records involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := fmt.Sprintf("Found %d conflict(s):\n\n", len(vr.Conflicts))
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Snapshot is the stored state of every feature at one moment.
type Snapshot struct {
	Alarms     []models.Alarm
	Timers     []models.Timer
	Countdowns []models.Countdown
	Schedule   []models.ScheduleItem
	Cities     []models.WorldClockCity
}

// Validator checks stored records for values a feature would have rejected
// on write, plus cross-record problems.
type Validator struct {
	// Horizon is how many days ahead double-booking is checked.
	Horizon int
}

func New() *Validator {
	return &Validator{Horizon: 14}
}

// Validate runs every check on s. now anchors the double-booking window.
func (v *Validator) Validate(s Snapshot, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.validateAlarms(&result, s.Alarms)
	v.validateTimers(&result, s.Timers)
	v.validateCountdowns(&result, s.Countdowns)
	v.validateSchedule(&result, s.Schedule, now)
	v.validateCities(&result, s.Cities)
	return result
}

func duplicateIDs(result *ValidationResult, kind string, ids []string) {
	seen := make(map[string]int)
	for _, id := range ids {
		seen[id]++
	}
	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	for _, id := range dups {
		result.add(Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("%s id %s is used %d times", kind, id, seen[id]),
			IDs:         []string{id},
		})
	}
}

func (v *Validator) validateAlarms(result *ValidationResult, list []models.Alarm) {
	ids := make([]string, len(list))
	byTime := make(map[string][]models.Alarm)
	for i, a := range list {
		ids[i] = a.ID
		if err := a.Validate(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidAlarm,
				Description: fmt.Sprintf("Alarm %s: %v", a.ID, err),
				IDs:         []string{a.ID},
			})
			continue
		}
		if a.Active {
			byTime[a.Time] = append(byTime[a.Time], a)
		}
	}
	duplicateIDs(result, "Alarm", ids)

	times := make([]string, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	sort.Strings(times)
	for _, t := range times {
		group := byTime[t]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if daysOverlap(group[i], group[j]) {
					result.add(Conflict{
						Type:        ConflictDuplicateAlarm,
						Description: fmt.Sprintf("Active alarms %s and %s both ring at %s", group[i].ID, group[j].ID, t),
						IDs:         []string{group[i].ID, group[j].ID},
					})
				}
			}
		}
	}
}

// daysOverlap reports whether two alarms can ring on the same weekday. A
// one-shot alarm can ring on any day.
func daysOverlap(a, b models.Alarm) bool {
	if !a.IsRecurring() || !b.IsRecurring() {
		return true
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if a.RunsOn(wd) && b.RunsOn(wd) {
			return true
		}
	}
	return false
}

func (v *Validator) validateTimers(result *ValidationResult, list []models.Timer) {
	ids := make([]string, len(list))
	for i, t := range list {
		ids[i] = t.ID
		if err := t.Validate(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidTimer,
				Description: fmt.Sprintf("Timer %q (%s): %v", t.Name, t.ID, err),
				IDs:         []string{t.ID},
			})
		}
	}
	duplicateIDs(result, "Timer", ids)
}

func (v *Validator) validateCountdowns(result *ValidationResult, list []models.Countdown) {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
		if c.Name == "" {
			result.add(Conflict{
				Type:        ConflictInvalidCountdown,
				Description: fmt.Sprintf("Countdown %s has no name", c.ID),
				IDs:         []string{c.ID},
			})
		}
		if _, err := utils.ParseInstant(c.Target).Get(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidCountdown,
				Description: fmt.Sprintf("Countdown %q has malformed target %q (shown as finished)", c.Name, c.Target),
				IDs:         []string{c.ID},
			})
		}
	}
	duplicateIDs(result, "Countdown", ids)
}

func (v *Validator) validateSchedule(result *ValidationResult, items []models.ScheduleItem, now time.Time) {
	ids := make([]string, len(items))
	templates := make(map[string]bool)
	for i, it := range items {
		ids[i] = it.ID
		if it.IsTemplate() {
			templates[it.ID] = true
		}
	}
	duplicateIDs(result, "Schedule item", ids)

	for _, it := range items {
		if err := it.Validate(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidScheduleItem,
				Description: fmt.Sprintf("Task %q (%s): %v", it.Text, it.ID, err),
				Date:        it.Date,
				IDs:         []string{it.ID},
			})
		}
		if it.TemplateID != "" && !templates[it.TemplateID] {
			result.add(Conflict{
				Type:        ConflictOrphanInstance,
				Description: fmt.Sprintf("Task %q on %s belongs to missing recurring task %s", it.Text, it.Date, it.TemplateID),
				Date:        it.Date,
				IDs:         []string{it.ID},
			})
		}
	}

	if v.Horizon <= 0 {
		return
	}
	from := utils.Midnight(now)
	to := from.AddDate(0, 0, v.Horizon-1)
	type slot struct{ date, time string }
	booked := make(map[slot][]models.ScheduleItem)
	var order []slot
	for _, it := range recurrence.ExpandRange(items, from, to) {
		if it.Time == "" || it.Completed {
			continue
		}
		k := slot{it.Date, it.Time}
		if _, ok := booked[k]; !ok {
			order = append(order, k)
		}
		booked[k] = append(booked[k], it)
	}
	for _, k := range order {
		group := booked[k]
		if len(group) < 2 {
			continue
		}
		names := make([]string, len(group))
		gids := make([]string, len(group))
		for i, it := range group {
			names[i] = fmt.Sprintf("%q", it.Text)
			gids[i] = it.ID
		}
		result.add(Conflict{
			Type:        ConflictDoubleBooked,
			Description: fmt.Sprintf("%s at %s: %s are scheduled together", k.date, k.time, strings.Join(names, ", ")),
			Date:        k.date,
			IDs:         gids,
		})
	}
}

func (v *Validator) validateCities(result *ValidationResult, list []models.WorldClockCity) {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
		if err := c.Validate(); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidCity,
				Description: fmt.Sprintf("City %q (%s): %v", c.Name, c.ID, err),
				IDs:         []string{c.ID},
			})
		}
	}
	duplicateIDs(result, "City", ids)
}

// AutoFixOrphans deletes schedule exceptions whose recurring task no longer
// exists. Returns a slice of FixActions describing what was fixed
func AutoFixOrphans(conflicts []Conflict, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}
	for _, conflict := range conflicts {
		if conflict.Type != ConflictOrphanInstance {
			continue
		}
		for _, id := range conflict.IDs {
			if err := deleteFunc(id); err != nil {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Failed to remove orphaned task %s: %v", id, err),
					SourceConflict: conflict,
				})
				continue
			}
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Removed orphaned task %s (%s)", id, conflict.Date),
				SourceConflict: conflict,
			})
		}
	}
	return actions
}
