package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/service"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/store/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// 2026-03-02 is a Monday.
func newTestModel(t *testing.T) (Model, *service.App, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 6, 59, 59, 0, time.UTC)}
	st := store.New(memory.New())
	t.Cleanup(func() { _ = st.Close() })

	app := service.NewApp(service.Env{
		Store:    st,
		Clock:    clock.Now,
		Location: time.UTC,
		Notifier: notifier.NewDispatcher(notifier.Log{}, false),
	}, "UTC")
	return NewModel(app), app, clock
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_TabsCycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, StateAlarms, m.state)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateTimers, m.state)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StateStats, m.state, "shift+tab wraps to the last tab")
	assert.NotEmpty(t, m.View())
}

func TestTick_AlignedToSecondBoundaries(t *testing.T) {
	var got time.Duration
	every = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		got = d
		return func() tea.Msg { return fn(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)) }
	}
	t.Cleanup(func() { every = tea.Every })

	m, _, _ := newTestModel(t)
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, time.Second, got)

	msg, ok := cmd().(TickMsg)
	require.True(t, ok)

	_, next := m.Update(msg)
	assert.NotNil(t, next, "each tick re-arms the next one")
}

func TestModel_AlarmRingsAndDismisses(t *testing.T) {
	m, app, clock := newTestModel(t)
	_, err := app.Alarms.Add(models.Alarm{Time: "07:00", Label: "Wake"})
	require.NoError(t, err)

	m = send(t, m, TickMsg(clock.Now()))
	assert.Empty(t, app.Alarms.Ringing())

	clock.Advance(time.Second)
	m = send(t, m, TickMsg(clock.Now()))
	require.Len(t, app.Alarms.Ringing(), 1)
	assert.Contains(t, m.status, "Alarm: Wake")
	assert.Contains(t, m.View(), "RINGING")

	m = send(t, m, keyRunes("x"))
	assert.Empty(t, app.Alarms.Ringing())
	assert.Equal(t, "Alarm dismissed", m.status)
}

func TestModel_AlarmSnooze(t *testing.T) {
	m, app, clock := newTestModel(t)
	_, err := app.Alarms.Add(models.Alarm{Time: "07:00", Label: "Wake", SnoozeEnabled: true, SnoozeMinutes: 5})
	require.NoError(t, err)

	clock.Advance(time.Second)
	m = send(t, m, TickMsg(clock.Now()))
	require.Len(t, app.Alarms.Ringing(), 1)

	m = send(t, m, keyRunes("z"))
	assert.Empty(t, app.Alarms.Ringing())
	assert.Contains(t, m.status, "Snoozed until")
}

func TestModel_TimerRunsToCompletion(t *testing.T) {
	m, app, clock := newTestModel(t)
	_, err := app.Timers.Add("Tea", 2*time.Second)
	require.NoError(t, err)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, keyRunes("s"))
	require.True(t, app.Timers.List()[0].Running)

	for i := 0; i < 2; i++ {
		clock.Advance(time.Second)
		m = send(t, m, TickMsg(clock.Now()))
	}
	tm := app.Timers.List()[0]
	assert.Equal(t, 0, tm.RemainingSec)
	assert.False(t, tm.Running)
	assert.Contains(t, m.status, "Timer finished: Tea")
	assert.Equal(t, 1, m.chart.Total("timers_completed"))
}

func TestModel_TimerPauseResume(t *testing.T) {
	m, app, _ := newTestModel(t)
	_, err := app.Timers.Add("Focus", time.Minute)
	require.NoError(t, err)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, keyRunes("s"))
	m = send(t, m, keyRunes("s"))
	assert.True(t, app.Timers.List()[0].Paused)

	m = send(t, m, keyRunes("s"))
	assert.True(t, app.Timers.List()[0].Running)

	m = send(t, m, keyRunes("r"))
	tm := app.Timers.List()[0]
	assert.False(t, tm.Running)
	assert.Equal(t, 60, tm.RemainingSec)
}

func TestModel_StopwatchLapUsesWallClock(t *testing.T) {
	m, _, clock := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, StateStopwatch, m.state)

	m = send(t, m, keyRunes("s"))
	require.True(t, m.stopwatch.Running())

	clock.Advance(1500 * time.Millisecond)
	m = send(t, m, keyRunes("l"))
	require.Len(t, m.stopwatch.Laps(), 1)
	assert.Equal(t, 1500*time.Millisecond, m.stopwatch.Laps()[0])
	assert.Contains(t, m.status, "Lap 1")

	m = send(t, m, keyRunes("s"))
	assert.False(t, m.stopwatch.Running())

	m = send(t, m, keyRunes("r"))
	assert.Empty(t, m.stopwatch.Laps())
	assert.Equal(t, time.Duration(0), m.stopwatch.Elapsed(clock.Now()))
}

func TestModel_ScheduleToggleAndDayMove(t *testing.T) {
	m, app, _ := newTestModel(t)
	_, err := app.Schedule.Add(models.ScheduleItem{
		Text:           "Standup",
		Date:           "2026-03-02",
		Time:           "09:00",
		RecurrenceType: "daily",
	})
	require.NoError(t, err)

	for m.state != StateSchedule {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "2026-03-03", m.day.Format("2006-01-02"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	items := app.Schedule.Day(m.day)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed)
	assert.Equal(t, "Standup", items[0].Text)

	m = send(t, m, keyRunes("t"))
	assert.Equal(t, "2026-03-02", m.day.Format("2006-01-02"))
	assert.False(t, app.Schedule.Day(m.day)[0].Completed)
}

func TestModel_ConfirmDelete(t *testing.T) {
	m, app, _ := newTestModel(t)
	_, err := app.Countdowns.Add("Launch", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	for m.state != StateCountdowns {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = send(t, m, keyRunes("d"))
	require.Equal(t, StateConfirmDelete, m.state)

	m = send(t, m, keyRunes("n"))
	assert.Equal(t, StateCountdowns, m.state)
	assert.Len(t, app.Countdowns.List(), 1)

	m = send(t, m, keyRunes("d"))
	m = send(t, m, keyRunes("y"))
	assert.Equal(t, StateCountdowns, m.state)
	assert.Empty(t, app.Countdowns.List())
}

func TestModel_LocalClockCannotBeDeleted(t *testing.T) {
	m, app, _ := newTestModel(t)
	for m.state != StateClocks {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = send(t, m, keyRunes("d"))
	m = send(t, m, keyRunes("y"))
	assert.Len(t, app.Clocks.List(), 1)
	assert.Contains(t, m.status, "✗")
}

func TestModel_QuitAndFormOpen(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = send(t, m, keyRunes("a"))
	assert.Equal(t, StateForm, m.state)
	assert.Equal(t, StateAlarms, m.previousState)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateAlarms, m.state)

	m = send(t, m, keyRunes("q"))
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}
