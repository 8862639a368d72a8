package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
)

func sampleItems() []models.ScheduleItem {
	return []models.ScheduleItem{
		{
			ID:             "gym",
			Text:           "Gym",
			Date:           "2026-03-02",
			Time:           "18:30",
			Notes:          "leg day",
			RecurrenceType: constants.RecurrenceWeekly,
			RecurrenceDays: []time.Weekday{time.Monday, time.Wednesday},
			ExcludedDates:  []string{"2026-03-04"},
		},
		{
			ID:         "gym-2026-03-09",
			Text:       "Gym",
			Date:       "2026-03-09",
			Completed:  true,
			TemplateID: "gym",
		},
		{ID: "dentist", Text: "Dentist", Date: "2026-03-05", Completed: true},
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	countdowns := []models.Countdown{{ID: "launch", Name: "Launch", Target: "2026-04-01T09:00:00Z", Emoji: "🚀"}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleItems(), countdowns, now))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO,WE")
	assert.Contains(t, out, "DTSTART:20260302T183000")
	assert.Contains(t, out, "EXDATE;VALUE=DATE:20260304")
	assert.Contains(t, out, "RECURRENCE-ID;VALUE=DATE:20260309")
	assert.Contains(t, out, "UID:gym@chronos")
	assert.Contains(t, out, "DTSTART:20260401T090000Z")
	assert.Equal(t, 4, strings.Count(out, "BEGIN:VEVENT"))
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleItems(), []models.Countdown{
		{ID: "launch", Name: "Launch", Target: "2026-04-01T09:00:00Z"},
	}, time.Now()))

	items, err := Import(&buf, time.UTC)
	require.NoError(t, err)
	require.Len(t, items, 2, "override and countdown are skipped")

	gym := items[0]
	assert.Equal(t, "Gym", gym.Text)
	assert.Equal(t, "2026-03-02", gym.Date)
	assert.Equal(t, "18:30", gym.Time)
	assert.Equal(t, "leg day", gym.Notes)
	assert.Equal(t, constants.RecurrenceWeekly, gym.RecurrenceType)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, gym.RecurrenceDays)
	assert.Equal(t, []string{"2026-03-04"}, gym.ExcludedDates)
	assert.False(t, gym.Completed)
	require.NoError(t, gym.Validate())

	dentist := items[1]
	assert.Equal(t, "Dentist", dentist.Text)
	assert.Equal(t, "2026-03-05", dentist.Date)
	assert.Empty(t, dentist.Time)
	assert.True(t, dentist.Completed)
}

const foreignCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example//Test//EN
BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260302T140000Z
SUMMARY:Standup
RRULE:FREQ=DAILY;UNTIL=20260331T000000Z
END:VEVENT
BEGIN:VEVENT
UID:review@example.com
DTSTAMP:20260301T000000Z
DTSTART;VALUE=DATE:20260303
SUMMARY:Review
RRULE:FREQ=WEEKLY
END:VEVENT
BEGIN:VEVENT
UID:rent@example.com
DTSTAMP:20260301T000000Z
DTSTART;VALUE=DATE:20260301
SUMMARY:Rent
RRULE:FREQ=MONTHLY
END:VEVENT
BEGIN:VEVENT
UID:empty@example.com
DTSTAMP:20260301T000000Z
DTSTART;VALUE=DATE:20260301
END:VEVENT
END:VCALENDAR
`

func TestImport_ForeignCalendar(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	items, err := Import(strings.NewReader(strings.ReplaceAll(foreignCalendar, "\n", "\r\n")), berlin)
	require.NoError(t, err)
	require.Len(t, items, 3)

	standup := items[0]
	assert.Equal(t, "15:00", standup.Time, "UTC converted to Berlin")
	assert.Equal(t, constants.RecurrenceDaily, standup.RecurrenceType)
	assert.Equal(t, "2026-03-31", standup.RecurrenceEndDate)

	review := items[1]
	assert.Equal(t, constants.RecurrenceWeekly, review.RecurrenceType)
	assert.Equal(t, []time.Weekday{time.Tuesday}, review.RecurrenceDays, "weekday taken from DTSTART")

	rent := items[2]
	assert.Empty(t, rent.RecurrenceType, "unsupported rule imports as one item")
	assert.Equal(t, "2026-03-01", rent.Date)
}
