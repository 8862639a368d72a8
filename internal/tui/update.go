package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.chart.SetSize(msg.Width, msg.Height)
		m.chart.Build(m.app.Stats.Snapshot(), m.now)
		if m.state == StateForm {
			break
		}
		return m, nil
	case TickMsg:
		m.handleTick()
		return m, tick()
	case FrameMsg:
		m.now = m.app.Now()
		if m.stopwatch.Running() {
			return m, frame()
		}
		m.framing = false
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

// handleTick advances the alarm and timer engines and reports what fired.
func (m *Model) handleTick() {
	m.now = m.app.Now()
	var events []string
	for _, a := range m.app.Alarms.Tick(m.now) {
		events = append(events, notifier.Event{Kind: constants.NotifyAlarm, Label: a.Label}.Text())
	}
	for _, t := range m.app.Timers.Tick(m.now) {
		events = append(events, notifier.Event{Kind: constants.NotifyTimer, Label: t.Name}.Text())
	}
	if len(events) > 0 {
		m.status = strings.Join(events, " · ")
		m.chart.Build(m.app.Stats.Snapshot(), m.now)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabTitles))
		return m.enterTab()
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state + SessionState(len(tabTitles)) - 1) % SessionState(len(tabTitles))
		return m.enterTab()
	case key.Matches(msg, m.keys.Dismiss):
		if ringing := m.app.Alarms.Ringing(); len(ringing) > 0 {
			m.app.Alarms.Dismiss(ringing[0].ID)
			m.status = "Alarm dismissed"
		}
		return m, nil
	case key.Matches(msg, m.keys.Snooze):
		if ringing := m.app.Alarms.Ringing(); len(ringing) > 0 {
			until, err := m.app.Alarms.Snooze(ringing[0].ID)
			if err != nil {
				m.status = err.Error()
			} else {
				m.status = "Snoozed until " + m.app.Settings.Formatter().Clock(until)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	}

	switch m.state {
	case StateAlarms:
		return m.handleAlarmKey(msg)
	case StateTimers:
		return m.handleTimerKey(msg)
	case StateStopwatch:
		return m.handleStopwatchKey(msg)
	case StateCountdowns, StateClocks:
		return m.handleAddDelete(msg)
	case StateSchedule:
		return m.handleScheduleKey(msg)
	}
	return m, nil
}

func (m Model) enterTab() (tea.Model, tea.Cmd) {
	m.status = ""
	if m.state == StateStats {
		m.chart.Build(m.app.Stats.Snapshot(), m.now)
	}
	if m.state == StateStopwatch && m.stopwatch.Running() && !m.framing {
		m.framing = true
		return m, frame()
	}
	return m, nil
}

func (m Model) handleAddDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		return m.openForm()
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selected(); ok {
			m.deleteID = id
			m.previousState = m.state
			m.state = StateConfirmDelete
		}
	}
	return m, nil
}

func (m Model) handleAlarmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Toggle) {
		if id, ok := m.selected(); ok {
			a, err := m.app.Alarms.Toggle(id)
			m.status = result(err, func() string {
				if a.Active {
					return "Alarm enabled"
				}
				return "Alarm disabled"
			})
		}
		return m, nil
	}
	return m.handleAddDelete(msg)
}

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		t, err := m.timerTransition(id)
		m.status = result(err, func() string { return fmt.Sprintf("%s: %s", displayName(t.Name, "Timer"), timerState(t)) })
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		if id, ok := m.selected(); ok {
			_, err := m.app.Timers.Reset(id)
			m.status = result(err, func() string { return "Timer reset" })
		}
		return m, nil
	}
	return m.handleAddDelete(msg)
}

// timerTransition starts an idle timer, pauses a running one and resumes a
// paused one.
func (m Model) timerTransition(id string) (models.Timer, error) {
	for _, t := range m.app.Timers.List() {
		if t.ID != id {
			continue
		}
		switch {
		case t.Running:
			return m.app.Timers.Pause(id)
		case t.Paused:
			return m.app.Timers.Resume(id)
		default:
			return m.app.Timers.Start(id)
		}
	}
	return m.app.Timers.Start(id)
}

func (m Model) handleStopwatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.app.Now()
	m.now = now
	switch {
	case key.Matches(msg, m.keys.Start):
		if m.stopwatch.Running() {
			m.stopwatch.Pause(now)
			return m, nil
		}
		m.stopwatch.Start(now)
		if !m.framing {
			m.framing = true
			return m, frame()
		}
	case key.Matches(msg, m.keys.Lap):
		lap, err := m.stopwatch.Lap(now)
		m.status = result(err, func() string {
			return fmt.Sprintf("Lap %d: %s", len(m.stopwatch.Laps()), m.app.Settings.Formatter().Stopwatch(lap))
		})
	case key.Matches(msg, m.keys.Reset):
		m.stopwatch.Reset()
		m.status = ""
	}
	return m, nil
}

func (m Model) handleScheduleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.day = m.day.AddDate(0, 0, -1)
		m.cursor[StateSchedule] = 0
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.day = m.day.AddDate(0, 0, 1)
		m.cursor[StateSchedule] = 0
		return m, nil
	case key.Matches(msg, m.keys.Today):
		m.day = utils.Midnight(m.app.Now())
		m.cursor[StateSchedule] = 0
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selected(); ok {
			it, err := m.app.Schedule.ToggleComplete(id)
			m.status = result(err, func() string {
				if it.Completed {
					return "✓ " + it.Text
				}
				return "Reopened " + it.Text
			})
		}
		return m, nil
	}
	return m.handleAddDelete(msg)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "y", "Y":
		var err error
		switch m.previousState {
		case StateAlarms:
			err = m.app.Alarms.Delete(m.deleteID)
		case StateTimers:
			err = m.app.Timers.Delete(m.deleteID)
		case StateCountdowns:
			err = m.app.Countdowns.Delete(m.deleteID)
		case StateSchedule:
			err = m.app.Schedule.Delete(m.deleteID)
		case StateClocks:
			err = m.app.Clocks.Remove(m.deleteID)
		}
		m.status = result(err, func() string { return "Deleted" })
		m.state = m.previousState
		m.deleteID = ""
		m.moveCursor(0)
	case "n", "N", "esc", "q":
		m.state = m.previousState
		m.deleteID = ""
	}
	return m, nil
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.quickAdd = &QuickAddForm{}
	switch m.state {
	case StateAlarms:
		m.form = NewAlarmForm(m.quickAdd)
	case StateTimers:
		m.form = NewTimerForm(m.quickAdd)
	case StateCountdowns:
		m.form = NewCountdownForm(m.quickAdd, m.app.Env.Location)
	case StateSchedule:
		m.form = NewScheduleForm(m.quickAdd)
	case StateClocks:
		m.form = NewClockForm(m.quickAdd)
	default:
		return m, nil
	}
	m.previousState = m.state
	m.state = StateForm
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.status = result(m.submitForm(), func() string { return "Added" })
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// submitForm creates the record described by the completed quick-add form.
func (m Model) submitForm() error {
	fm := m.quickAdd
	name := strings.TrimSpace(fm.Name)
	value := strings.TrimSpace(fm.Value)

	switch m.previousState {
	case StateAlarms:
		_, err := m.app.Alarms.Add(models.Alarm{
			Time:          value,
			Label:         name,
			Days:          fm.Days,
			Sound:         constants.DefaultSound,
			SnoozeEnabled: true,
			SnoozeMinutes: constants.DefaultSnoozeMin,
		})
		return err
	case StateTimers:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		_, err = m.app.Timers.Add(name, d)
		return err
	case StateCountdowns:
		target, err := utils.ParseDateOrInstant(value, m.app.Env.Location)
		if err != nil {
			return err
		}
		_, err = m.app.Countdowns.Add(name, target, strings.TrimSpace(fm.Extra))
		return err
	case StateSchedule:
		item := models.ScheduleItem{
			Text:           name,
			Date:           utils.DateString(m.day),
			Time:           value,
			RecurrenceType: fm.Recurrence,
		}
		if fm.Recurrence == constants.RecurrenceWeekly {
			item.RecurrenceDays = fm.Days
			if len(item.RecurrenceDays) == 0 {
				item.RecurrenceDays = []time.Weekday{m.day.Weekday()}
			}
		}
		_, err := m.app.Schedule.Add(item)
		return err
	case StateClocks:
		_, err := m.app.Clocks.Add(name, value)
		return err
	}
	return nil
}

// result returns err's message, or ok() when err is nil.
func result(err error, ok func() string) string {
	if err != nil {
		return "✗ " + err.Error()
	}
	return ok()
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func timerState(t models.Timer) string {
	switch {
	case t.Running:
		return "running"
	case t.Paused:
		return "paused"
	case t.RemainingSec == 0:
		return "finished"
	default:
		return "ready"
	}
}
