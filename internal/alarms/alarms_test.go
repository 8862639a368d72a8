package alarms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/models"
)

// 2026-03-02 is a Monday.
func at(day, hour, min, sec int) time.Time {
	return time.Date(2026, 3, day, hour, min, sec, 0, time.UTC)
}

func TestDue_MatchesOnlyAtSecondZero(t *testing.T) {
	list := []models.Alarm{{ID: "a", Time: "07:00", Active: true}}

	assert.Equal(t, []string{"a"}, Due(at(2, 7, 0, 0), list, nil))
	assert.Empty(t, Due(at(2, 7, 0, 1), list, nil))
	assert.Empty(t, Due(at(2, 7, 1, 0), list, nil))
	assert.Empty(t, Due(at(2, 6, 59, 59), list, nil))
}

func TestDue_WeekdayFilter(t *testing.T) {
	list := []models.Alarm{{ID: "w", Time: "08:30", Active: true, Days: []time.Weekday{time.Monday, time.Wednesday}}}

	assert.Equal(t, []string{"w"}, Due(at(2, 8, 30, 0), list, nil)) // Monday
	assert.Empty(t, Due(at(3, 8, 30, 0), list, nil))                  // Tuesday
	assert.Equal(t, []string{"w"}, Due(at(4, 8, 30, 0), list, nil)) // Wednesday
}

func TestDue_SkipsInactiveRingingAndMalformed(t *testing.T) {
	list := []models.Alarm{
		{ID: "off", Time: "07:00", Active: false},
		{ID: "ringing", Time: "07:00", Active: true},
		{ID: "bad", Time: "7 o'clock", Active: true},
		{ID: "ok", Time: "07:00", Active: true},
	}
	got := Due(at(2, 7, 0, 0), list, map[string]bool{"ringing": true})
	assert.Equal(t, []string{"ok"}, got)
}

func TestDue_PreservesListOrder(t *testing.T) {
	list := []models.Alarm{
		{ID: "z", Time: "07:00", Active: true},
		{ID: "a", Time: "07:00", Active: true},
		{ID: "m", Time: "07:00", Active: true},
	}
	assert.Equal(t, []string{"z", "a", "m"}, Due(at(2, 7, 0, 0), list, nil))
}

func TestDue_SnoozeExpiry(t *testing.T) {
	until := at(2, 7, 5, 0)
	list := []models.Alarm{{ID: "s", Time: "07:00", Active: false, SnoozedUntil: &until}}

	assert.Empty(t, Due(at(2, 7, 4, 59), list, nil))
	assert.Equal(t, []string{"s"}, Due(at(2, 7, 5, 0), list, nil))
	// a late tick still fires an expired snooze
	assert.Equal(t, []string{"s"}, Due(at(2, 7, 5, 3), list, nil))
}

func TestNext(t *testing.T) {
	weekly := models.Alarm{Time: "09:00", Active: true, Days: []time.Weekday{time.Friday}}
	next, ok := Next(weekly, at(2, 10, 0, 0))
	require.True(t, ok)
	assert.Equal(t, at(6, 9, 0, 0), next)

	once := models.Alarm{Time: "09:00", Active: true}
	next, ok = Next(once, at(2, 8, 0, 0))
	require.True(t, ok)
	assert.Equal(t, at(2, 9, 0, 0), next)

	_, ok = Next(models.Alarm{Time: "09:00"}, at(2, 8, 0, 0))
	assert.False(t, ok)
}
