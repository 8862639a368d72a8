package alarms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/models"
)

func TestRinger_OneShotDeactivatesAndDoesNotRefire(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "once", Time: "07:00", Active: true, SnoozeMinutes: 5}}

	ev := r.Evaluate(at(2, 7, 0, 0), list)
	require.Len(t, ev.Fired, 1)
	assert.True(t, ev.Changed)
	assert.False(t, ev.Alarms[0].Active)
	assert.True(t, r.IsRinging("once"))
	list = ev.Alarms

	for s := 1; s < 60; s++ {
		ev := r.Evaluate(at(2, 7, 0, s), list)
		assert.Empty(t, ev.Fired, "refired at second %d", s)
	}

	list, _ = r.Dismiss("once", list)
	assert.False(t, list[0].Active)
	assert.False(t, r.IsRinging("once"))

	// manual reactivation fires at the next matching time
	list[0].Active = true
	ev = r.Evaluate(at(3, 7, 0, 0), list)
	assert.Len(t, ev.Fired, 1)
}

func TestRinger_RecurringStaysActive(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "weekly", Time: "06:00", Active: true, Days: []time.Weekday{time.Monday, time.Wednesday}}}

	ev := r.Evaluate(at(2, 6, 0, 0), list)
	require.Len(t, ev.Fired, 1)
	assert.True(t, ev.Alarms[0].Active)
	assert.False(t, ev.Changed)

	list, changed := r.Dismiss("weekly", ev.Alarms)
	assert.False(t, changed)
	assert.True(t, list[0].Active)

	// same second after dismissal does not re-enter
	assert.Empty(t, r.Evaluate(at(2, 6, 0, 0), list).Fired)

	// recurs on Wednesday
	assert.Len(t, r.Evaluate(at(4, 6, 0, 0), list).Fired, 1)
}

func TestRinger_DismissIsIdempotent(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "a", Time: "07:00", Active: true}}

	ev := r.Evaluate(at(2, 7, 0, 0), list)
	first, _ := r.Dismiss("a", ev.Alarms)
	second, changed := r.Dismiss("a", first)
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestRinger_Snooze(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "s", Time: "07:00", Active: true, SnoozeEnabled: true, SnoozeMinutes: 9}}

	ev := r.Evaluate(at(2, 7, 0, 0), list)
	snoozed, err := r.Snooze("s", at(2, 7, 0, 10), ev.Alarms)
	require.NoError(t, err)
	require.NotNil(t, snoozed[0].SnoozedUntil)
	assert.Equal(t, at(2, 7, 9, 10), *snoozed[0].SnoozedUntil)
	assert.False(t, r.IsRinging("s"))

	assert.Empty(t, r.Evaluate(at(2, 7, 9, 9), snoozed).Fired)
	ev = r.Evaluate(at(2, 7, 9, 10), snoozed)
	require.Len(t, ev.Fired, 1)
	assert.Nil(t, ev.Alarms[0].SnoozedUntil)
	assert.True(t, ev.Changed)
}

func TestRinger_SnoozeRejected(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "n", Time: "07:00", Active: true, SnoozeMinutes: 5}}

	_, err := r.Snooze("n", at(2, 7, 0, 0), list)
	assert.True(t, apperrors.IsValidation(err), "snoozing an idle alarm")

	ev := r.Evaluate(at(2, 7, 0, 0), list)
	_, err = r.Snooze("n", at(2, 7, 0, 1), ev.Alarms)
	assert.True(t, apperrors.IsValidation(err), "snooze disabled")
	assert.True(t, r.IsRinging("n"))
}

func TestRinger_EndToEndOneShot(t *testing.T) {
	r := NewRinger()
	list := []models.Alarm{{ID: "wake", Time: "07:00", Active: true, SnoozeMinutes: 5}}

	for _, day := range []int{2, 5, 7} {
		r := NewRinger()
		ev := r.Evaluate(at(day, 7, 0, 0), list)
		require.Len(t, ev.Fired, 1)
		assert.Equal(t, "wake", ev.Fired[0].ID)
	}

	ev := r.Evaluate(at(2, 7, 0, 0), list)
	after, _ := r.Dismiss("wake", ev.Alarms)
	assert.False(t, after[0].Active)
	assert.Empty(t, r.Ringing())
}
