package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/chronos/internal/timing"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAlarms:
		content = m.viewAlarms()
	case StateTimers:
		content = m.viewTimers()
	case StateStopwatch:
		content = m.viewStopwatch()
	case StateCountdowns:
		content = m.viewCountdowns()
	case StateSchedule:
		content = m.viewSchedule()
	case StateClocks:
		content = m.viewClocks()
	case StateStats:
		content = m.chart.View()
	case StateForm:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = warningStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewRinging(),
		docStyle.Render(content),
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	current := m.state
	if current == StateForm || current == StateConfirmDelete {
		current = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if current == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	clock := mutedStyle.Render("  " + m.app.Settings.Formatter().Clock(m.now))
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, clock)...)
}

func (m Model) viewRinging() string {
	ringing := m.app.Alarms.Ringing()
	if len(ringing) == 0 {
		return ""
	}
	var labels []string
	for _, a := range ringing {
		labels = append(labels, displayName(a.Label, a.Time))
	}
	return ringingStyle.Render(fmt.Sprintf("⏰ RINGING: %s  [x] dismiss  [z] snooze", strings.Join(labels, ", ")))
}

// row renders one list line with a cursor marker.
func (m Model) row(i int, line string) string {
	if i == m.cursor[m.state] {
		return selectedStyle.Render("› " + line)
	}
	return "  " + line
}

func (m Model) viewAlarms() string {
	list := m.app.Alarms.List()
	if len(list) == 0 {
		return mutedStyle.Render("No alarms. Press 'a' to add one.")
	}
	f := m.app.Settings.Formatter()
	var lines []string
	for i, a := range list {
		next := "-"
		if t, ok := m.app.Alarms.Next(a); ok {
			next = f.Date(t) + " " + f.TimeOfDay(t.Format("15:04"))
		}
		line := fmt.Sprintf("%-8s %-20s %-16s next: %s", f.TimeOfDay(a.Time), displayName(a.Label, "Alarm"), a.FormatDays(), next)
		if !a.Active {
			line = mutedStyle.Render("[off] " + line)
		}
		lines = append(lines, m.row(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewTimers() string {
	list := m.app.Timers.List()
	if len(list) == 0 {
		return mutedStyle.Render("No timers. Press 'a' to add one.")
	}
	f := m.app.Settings.Formatter()
	var lines []string
	for i, t := range list {
		line := fmt.Sprintf("%-20s %9s / %-9s %s", displayName(t.Name, "Timer"), f.Duration(t.RemainingSec), f.Duration(t.DurationSec), timerState(t))
		lines = append(lines, m.row(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStopwatch() string {
	f := m.app.Settings.Formatter()
	elapsed := m.stopwatch.Elapsed(m.now)

	lines := []string{bigStyle.Render(f.Stopwatch(elapsed)), ""}
	laps := m.stopwatch.Laps()
	for i := len(laps) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("Lap %-3d %s", i+1, f.Stopwatch(laps[i])))
	}
	if len(laps) == 0 {
		lines = append(lines, mutedStyle.Render("[s] start/pause  [l] lap  [r] reset"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewCountdowns() string {
	list := timing.SortCountdowns(m.app.Countdowns.List(), m.now)
	if len(list) == 0 {
		return mutedStyle.Render("No countdowns. Press 'a' to add one.")
	}
	f := m.app.Settings.Formatter()
	var lines []string
	for i, c := range list {
		remaining := "done"
		if !timing.Finished(c, m.now) {
			remaining = timing.Decompose(timing.Remaining(c, m.now)).String()
		}
		name := c.Name
		if c.Emoji != "" {
			name = c.Emoji + " " + name
		}
		target := timing.Target(c, m.now).In(m.now.Location())
		lines = append(lines, m.row(i, fmt.Sprintf("%-24s %-14s %s", name, remaining, f.Date(target))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewSchedule() string {
	f := m.app.Settings.Formatter()
	header := selectedStyle.Render(f.Date(m.day))
	items := m.app.Schedule.Day(m.day)
	if len(items) == 0 {
		return header + "\n\n" + mutedStyle.Render("Nothing scheduled. Press 'a' to add a task.")
	}

	lines := []string{header, ""}
	for i, it := range items {
		check := "[ ]"
		if it.Completed {
			check = "[x]"
		}
		at := "     "
		if it.Time != "" {
			at = f.TimeOfDay(it.Time)
		}
		line := fmt.Sprintf("%s %-8s %s", check, at, it.Text)
		if it.TemplateID != "" {
			line += mutedStyle.Render(" ↻")
		}
		lines = append(lines, m.row(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewClocks() string {
	f := m.app.Settings.Formatter()
	var lines []string
	for i, r := range m.app.Clocks.Readings(m.now) {
		day := ""
		switch r.DayDelta {
		case 1:
			day = "tomorrow"
		case -1:
			day = "yesterday"
		}
		line := fmt.Sprintf("%-20s %-12s %-8s %s", r.City.Name, f.Clock(r.Time), f.Offset(r.OffsetSec), day)
		lines = append(lines, m.row(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this item?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
