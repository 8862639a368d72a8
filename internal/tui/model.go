package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chronos/internal/service"
	"github.com/julianstephens/chronos/internal/timing"
	"github.com/julianstephens/chronos/internal/tui/components/statschart"
	"github.com/julianstephens/chronos/internal/utils"
)

type SessionState int

const (
	StateAlarms SessionState = iota
	StateTimers
	StateStopwatch
	StateCountdowns
	StateSchedule
	StateClocks
	StateStats
	StateForm
	StateConfirmDelete
)

var tabTitles = []string{"Alarms", "Timers", "Stopwatch", "Countdowns", "Schedule", "Clocks", "Stats"}

const (
	tickInterval  = time.Second
	frameInterval = 50 * time.Millisecond
)

// TickMsg drives the alarm and timer engines once per second.
type TickMsg time.Time

// FrameMsg redraws a running stopwatch between ticks.
type FrameMsg time.Time

// every schedules on wall-clock boundaries so ticks land at the start of
// each second and an alarm's second-zero window is never skipped.
var every = tea.Every

func tick() tea.Cmd {
	return every(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

type Model struct {
	app           *service.App
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	cursor        map[SessionState]int
	now           time.Time
	day           time.Time // selected schedule day
	stopwatch     *timing.Stopwatch
	framing       bool
	chart         statschart.Model
	form          *huh.Form
	quickAdd      *QuickAddForm
	deleteID      string
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(app *service.App) Model {
	now := app.Now()
	m := Model{
		app:       app,
		state:     StateAlarms,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		cursor:    make(map[SessionState]int),
		now:       now,
		day:       utils.Midnight(now),
		stopwatch: &timing.Stopwatch{},
		chart:     statschart.New(0, 0),
	}
	m.chart.Build(app.Stats.Snapshot(), now)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateAlarms:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Delete)
	case StateTimers:
		keys = append(keys, m.keys.Add, m.keys.Start, m.keys.Reset, m.keys.Delete)
	case StateStopwatch:
		keys = append(keys, m.keys.Start, m.keys.Lap, m.keys.Reset)
	case StateCountdowns, StateClocks:
		keys = append(keys, m.keys.Add, m.keys.Delete)
	case StateSchedule:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Left, m.keys.Right, m.keys.Delete)
	}
	if len(m.app.Alarms.Ringing()) > 0 {
		keys = append(keys, m.keys.Dismiss, m.keys.Snooze)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// rows returns the ids of the selectable records on a tab, in display order.
func (m Model) rows(state SessionState) []string {
	var ids []string
	switch state {
	case StateAlarms:
		for _, a := range m.app.Alarms.List() {
			ids = append(ids, a.ID)
		}
	case StateTimers:
		for _, t := range m.app.Timers.List() {
			ids = append(ids, t.ID)
		}
	case StateCountdowns:
		for _, c := range timing.SortCountdowns(m.app.Countdowns.List(), m.now) {
			ids = append(ids, c.ID)
		}
	case StateSchedule:
		for _, it := range m.app.Schedule.Day(m.day) {
			ids = append(ids, it.ID)
		}
	case StateClocks:
		for _, c := range m.app.Clocks.List() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// selected returns the id under the cursor on the current tab.
func (m Model) selected() (string, bool) {
	ids := m.rows(m.state)
	if len(ids) == 0 {
		return "", false
	}
	i := m.cursor[m.state]
	if i >= len(ids) {
		i = len(ids) - 1
	}
	if i < 0 {
		i = 0
	}
	return ids[i], true
}

func (m *Model) moveCursor(delta int) {
	n := len(m.rows(m.state))
	if n == 0 {
		m.cursor[m.state] = 0
		return
	}
	i := m.cursor[m.state] + delta
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	m.cursor[m.state] = i
}
