package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Start date 2026-03-02 is a Monday.
func weeklyMonWed() models.ScheduleItem {
	return models.ScheduleItem{
		ID:             "gym",
		Text:           "Gym",
		Date:           "2026-03-02",
		Time:           "18:00",
		RecurrenceType: constants.RecurrenceWeekly,
		RecurrenceDays: []time.Weekday{time.Monday, time.Wednesday},
	}
}

func TestOccurs_Weekly(t *testing.T) {
	tmpl := weeklyMonWed()

	assert.False(t, Occurs(tmpl, day("2026-02-23")), "Monday before start")
	assert.True(t, Occurs(tmpl, day("2026-03-02")), "start Monday")
	assert.False(t, Occurs(tmpl, day("2026-03-03")), "Tuesday")
	assert.True(t, Occurs(tmpl, day("2026-03-04")), "Wednesday")
	assert.True(t, Occurs(tmpl, day("2026-04-06")), "later Monday")
}

func TestOccurs_EndDateInclusive(t *testing.T) {
	tmpl := models.ScheduleItem{ID: "d", Date: "2026-03-01", RecurrenceType: constants.RecurrenceDaily, RecurrenceEndDate: "2026-03-05"}

	assert.True(t, Occurs(tmpl, day("2026-03-05")))
	assert.False(t, Occurs(tmpl, day("2026-03-06")))
}

func TestOccurs_MalformedDates(t *testing.T) {
	tmpl := models.ScheduleItem{ID: "d", Date: "garbage", RecurrenceType: constants.RecurrenceDaily, RecurrenceEndDate: "also garbage"}
	assert.True(t, Occurs(tmpl, day("2026-03-05")))
}

func TestDerive(t *testing.T) {
	tmpl := weeklyMonWed()
	tmpl.Completed = true

	inst := Derive(tmpl, day("2026-03-04"))
	assert.Equal(t, "gym-2026-03-04", inst.ID)
	assert.Equal(t, "2026-03-04", inst.Date)
	assert.Equal(t, "18:00", inst.Time)
	assert.False(t, inst.Completed)
	assert.False(t, inst.IsTemplate())
	assert.Empty(t, inst.RecurrenceDays)
	assert.Empty(t, inst.RecurrenceEndDate)
	assert.Equal(t, "gym", inst.TemplateID)
}

func TestItemsForDate(t *testing.T) {
	items := []models.ScheduleItem{
		{ID: "one", Text: "Dentist", Date: "2026-03-04"},
		weeklyMonWed(),
		{ID: "other", Text: "Other day", Date: "2026-03-05"},
	}

	got := ItemsForDate(items, day("2026-03-04"))
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].ID)
	assert.Equal(t, "gym-2026-03-04", got[1].ID)

	assert.Empty(t, ItemsForDate(items[1:2], day("2026-03-03")))
}

func TestItemsForDate_Exceptions(t *testing.T) {
	tmpl := weeklyMonWed()
	tmpl.ExcludedDates = []string{"2026-03-09"}
	done := Derive(tmpl, day("2026-03-04"))
	done.Completed = true

	items := []models.ScheduleItem{tmpl, done}

	got := ItemsForDate(items, day("2026-03-04"))
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed, "materialized exception replaces the derived instance")

	assert.Empty(t, ItemsForDate(items, day("2026-03-09")), "excluded date")

	got = ItemsForDate(items, day("2026-03-11"))
	require.Len(t, got, 1)
	assert.False(t, got[0].Completed)
}

func TestFind(t *testing.T) {
	items := []models.ScheduleItem{weeklyMonWed(), {ID: "x", Text: "x", Date: "2026-03-04"}}

	it, derived, ok := Find(items, "gym-2026-03-04", day("2026-03-04"))
	require.True(t, ok)
	assert.True(t, derived)
	assert.Equal(t, "gym", it.TemplateID)

	_, derived, ok = Find(items, "x", day("2026-03-04"))
	assert.True(t, ok)
	assert.False(t, derived)

	_, _, ok = Find(items, "gym-2026-03-03", day("2026-03-03"))
	assert.False(t, ok)
}

func TestParseInstanceID(t *testing.T) {
	id := InstanceID("3f2a-9c1e", day("2026-03-04"))
	tmplID, date, ok := ParseInstanceID(id, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "3f2a-9c1e", tmplID)
	assert.Equal(t, day("2026-03-04"), date)

	for _, bad := range []string{"", "gym", "gym-2026-13-40", "-2026-03-04", "gym_2026-03-04"} {
		_, _, ok := ParseInstanceID(bad, time.UTC)
		assert.False(t, ok, bad)
	}
}
