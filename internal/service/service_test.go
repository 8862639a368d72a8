package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/notifier"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/store/memory"
	"github.com/julianstephens/chronos/internal/timing"
	"github.com/julianstephens/chronos/internal/utils"
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

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type sinkRecorder struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (s *sinkRecorder) Notify(ev notifier.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *sinkRecorder) Events() []notifier.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifier.Event(nil), s.events...)
}

type harness struct {
	app   *App
	clock *fakeClock
	sink  *sinkRecorder
	disp  *notifier.Dispatcher
	store *store.Store
}

// 2026-03-02 is a Monday.
func at(day, h, m, s int) time.Time {
	return time.Date(2026, 3, day, h, m, s, 0, time.UTC)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{now: at(2, 6, 0, 0)}
	sink := &sinkRecorder{}
	disp := notifier.NewDispatcher(sink, true)
	st := store.New(memory.New())
	t.Cleanup(func() { _ = st.Close() })

	app := NewApp(Env{
		Store:    st,
		Clock:    clock.Now,
		Location: time.UTC,
		Notifier: disp,
	}, "UTC")
	return &harness{app: app, clock: clock, sink: sink, disp: disp, store: st}
}

func TestAlarms_OneShotLifecycle(t *testing.T) {
	h := newHarness(t)

	a, err := h.app.Alarms.Add(models.Alarm{Time: "07:00", Label: "Wake"})
	require.NoError(t, err)
	assert.True(t, a.Active)
	assert.Equal(t, constants.DefaultSound, a.Sound)
	assert.Equal(t, constants.DefaultSnoozeMin, a.SnoozeMinutes)

	fired := h.app.Alarms.Tick(at(2, 7, 0, 0))
	require.Len(t, fired, 1)
	assert.Equal(t, a.ID, fired[0].ID)

	// deactivated at fire time and suppressed for the rest of the minute
	assert.False(t, h.app.Alarms.List()[0].Active)
	assert.Empty(t, h.app.Alarms.Tick(at(2, 7, 0, 1)))
	assert.Len(t, h.app.Alarms.Ringing(), 1)

	h.app.Alarms.Dismiss(a.ID)
	assert.Empty(t, h.app.Alarms.Ringing())
	assert.False(t, h.app.Alarms.List()[0].Active)

	h.disp.Wait()
	events := h.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, constants.NotifyAlarm, events[0].Kind)
	assert.Equal(t, "Wake", events[0].Label)

	assert.Equal(t, 1, h.app.Stats.Snapshot().Count("2026-03-02", constants.StatAlarmsRung))

	// reactivated, it fires again the next day
	_, err = h.app.Alarms.Toggle(a.ID)
	require.NoError(t, err)
	assert.Len(t, h.app.Alarms.Tick(at(3, 7, 0, 0)), 1)
}

func TestAlarms_RecurringStaysActive(t *testing.T) {
	h := newHarness(t)

	a, err := h.app.Alarms.Add(models.Alarm{Time: "07:00", Days: []time.Weekday{time.Wednesday, time.Monday, time.Monday}})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, a.Days)

	require.Len(t, h.app.Alarms.Tick(at(2, 7, 0, 0)), 1)
	h.app.Alarms.Dismiss(a.ID)
	assert.True(t, h.app.Alarms.List()[0].Active)

	assert.Empty(t, h.app.Alarms.Tick(at(3, 7, 0, 0)), "Tuesday")
	assert.Len(t, h.app.Alarms.Tick(at(4, 7, 0, 0)), 1, "Wednesday")
}

func TestAlarms_Snooze(t *testing.T) {
	h := newHarness(t)

	a, err := h.app.Alarms.Add(models.Alarm{Time: "07:00", SnoozeEnabled: true, SnoozeMinutes: 9})
	require.NoError(t, err)

	_, err = h.app.Alarms.Snooze(a.ID)
	assert.True(t, apperrors.IsValidation(err), "not ringing")

	require.Len(t, h.app.Alarms.Tick(at(2, 7, 0, 0)), 1)
	h.clock.Set(at(2, 7, 0, 30))
	until, err := h.app.Alarms.Snooze(a.ID)
	require.NoError(t, err)
	assert.Equal(t, at(2, 7, 9, 30), until)
	assert.Empty(t, h.app.Alarms.Ringing())

	assert.Empty(t, h.app.Alarms.Tick(at(2, 7, 9, 29)))
	fired := h.app.Alarms.Tick(at(2, 7, 9, 30))
	require.Len(t, fired, 1)
	assert.Nil(t, h.app.Alarms.List()[0].SnoozedUntil)
}

func TestAlarms_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.app.Alarms.Add(models.Alarm{Time: "25:00"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, h.app.Alarms.List())

	assert.ErrorIs(t, h.app.Alarms.Delete("missing"), apperrors.ErrNotFound)
	_, err = h.app.Alarms.Toggle("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAlarms_DueIsReadOnly(t *testing.T) {
	h := newHarness(t)
	_, err := h.app.Alarms.Add(models.Alarm{Time: "07:00"})
	require.NoError(t, err)

	assert.Len(t, h.app.Alarms.Due(at(2, 7, 0, 0)), 1)
	assert.True(t, h.app.Alarms.List()[0].Active)
	assert.Empty(t, h.app.Alarms.Ringing())
}

func TestTimers_CompletesOnce(t *testing.T) {
	h := newHarness(t)

	tm, err := h.app.Timers.Add("Tea", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5, tm.RemainingSec)

	h.clock.Set(at(2, 6, 0, 0))
	_, err = h.app.Timers.Start(tm.ID)
	require.NoError(t, err)

	var finished int
	for i := 1; i <= 8; i++ {
		finished += len(h.app.Timers.Tick(at(2, 6, 0, i)))
	}
	assert.Equal(t, 1, finished)

	got := h.app.Timers.List()[0]
	assert.Equal(t, 0, got.RemainingSec)
	assert.False(t, got.Running)
	assert.Equal(t, models.TimerFinished, got.State())

	h.disp.Wait()
	require.Len(t, h.sink.Events(), 1)
	assert.Equal(t, constants.NotifyTimer, h.sink.Events()[0].Kind)
	assert.Equal(t, 1, h.app.Stats.Snapshot().Count("2026-03-02", constants.StatTimersCompleted))
}

func TestTimers_PauseResumeReset(t *testing.T) {
	h := newHarness(t)
	tm, err := h.app.Timers.Add("Focus", time.Minute)
	require.NoError(t, err)

	_, err = h.app.Timers.Start(tm.ID)
	require.NoError(t, err)
	h.app.Timers.Tick(at(2, 6, 0, 1))
	h.app.Timers.Tick(at(2, 6, 0, 2))

	paused, err := h.app.Timers.Pause(tm.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TimerPaused, paused.State())
	assert.Equal(t, 58, paused.RemainingSec)

	h.app.Timers.Tick(at(2, 6, 0, 30))
	assert.Equal(t, 58, h.app.Timers.List()[0].RemainingSec)

	h.clock.Set(at(2, 6, 1, 0))
	_, err = h.app.Timers.Resume(tm.ID)
	require.NoError(t, err)
	h.app.Timers.Tick(at(2, 6, 1, 1))
	assert.Equal(t, 57, h.app.Timers.List()[0].RemainingSec)

	reset, err := h.app.Timers.Reset(tm.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TimerIdle, reset.State())
	assert.Equal(t, 60, reset.RemainingSec)

	require.NoError(t, h.app.Timers.Delete(tm.ID))
	assert.Empty(t, h.app.Timers.List())
}

func TestTimers_ZeroDurationRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.app.Timers.Add("nothing", 500*time.Millisecond)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, h.app.Timers.List())
}

func TestCountdowns(t *testing.T) {
	h := newHarness(t)
	now := h.clock.Now()

	_, err := h.app.Countdowns.Add("Past", now.Add(-time.Hour), "")
	assert.True(t, apperrors.IsValidation(err))

	late, err := h.app.Countdowns.Add("Late", now.Add(48*time.Hour), "🎉")
	require.NoError(t, err)
	soon, err := h.app.Countdowns.Add("Soon", now.Add(time.Hour), "")
	require.NoError(t, err)

	list := h.app.Countdowns.List()
	require.Len(t, list, 2)
	assert.Equal(t, soon.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)

	// once finished, Soon sorts after Late
	h.clock.Set(now.Add(2 * time.Hour))
	list = h.app.Countdowns.List()
	assert.Equal(t, late.ID, list[0].ID)

	require.NoError(t, h.app.Countdowns.Delete(soon.ID))
	assert.ErrorIs(t, h.app.Countdowns.Delete(soon.ID), apperrors.ErrNotFound)
}

func TestCountdowns_SubSecondTargets(t *testing.T) {
	h := newHarness(t)

	now := time.Date(2026, 3, 2, 6, 0, 0, 700_000_000, time.UTC)
	h.clock.Set(now)
	hour, err := h.app.Countdowns.Add("Hour", now.Add(time.Hour), "")
	require.NoError(t, err)
	assert.Equal(t, timing.Breakdown{Hours: 1}, timing.Decompose(timing.Remaining(hour, now)))

	// a target later in the same wall-clock second is still in the future
	now = time.Date(2026, 3, 2, 6, 0, 0, 200_000_000, time.UTC)
	h.clock.Set(now)
	half, err := h.app.Countdowns.Add("Blink", now.Add(500*time.Millisecond), "")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, timing.Remaining(half, now))
}

func TestSettings(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, models.DefaultSettings(), h.app.Settings.Get())

	got, err := h.app.Settings.Set(constants.SettingTimeFormat, "12h")
	require.NoError(t, err)
	assert.Equal(t, constants.TimeDisplay12h, got.TimeFormat)
	assert.Equal(t, "7:05 PM", h.app.Settings.Formatter().TimeOfDay("19:05"))

	_, err = h.app.Settings.Set(constants.SettingTheme, "neon")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, constants.DefaultTheme, h.app.Settings.Get().Theme)
}

func TestClocks(t *testing.T) {
	h := newHarness(t)

	list := h.app.Clocks.List()
	require.Len(t, list, 1)
	assert.True(t, list[0].IsLocal())

	tokyo, err := h.app.Clocks.Add("Tokyo", "Asia/Tokyo")
	require.NoError(t, err)
	_, err = h.app.Clocks.Add("Nowhere", "Mars/Olympus")
	assert.True(t, apperrors.IsValidation(err))

	readings := h.app.Clocks.Readings(at(2, 20, 0, 0))
	require.Len(t, readings, 2)
	assert.Equal(t, 9*3600, readings[1].OffsetSec)
	assert.Equal(t, 1, readings[1].DayDelta)

	assert.True(t, apperrors.IsValidation(h.app.Clocks.Remove(constants.LocalCityID)))
	require.NoError(t, h.app.Clocks.Remove(tokyo.ID))
	assert.Len(t, h.app.Clocks.List(), 1)
}

func TestClocks_LocalInsertedOncePerStore(t *testing.T) {
	h := newHarness(t)
	again := NewClocks(h.app.Env, "Europe/Paris")
	list := again.List()
	require.Len(t, list, 1)
	assert.Equal(t, "UTC", list[0].Timezone)
}

func TestApp_DefaultsStatsToLocal(t *testing.T) {
	h := newHarness(t)
	assert.Same(t, h.app.Stats, h.app.Env.Stats)
	assert.Equal(t, "2026-03-02", utils.DateString(h.app.Now()))
}
