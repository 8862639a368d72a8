package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
)

func TestRuleString(t *testing.T) {
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO,WE", RuleString(weeklyMonWed()))

	daily := models.ScheduleItem{RecurrenceType: constants.RecurrenceDaily, RecurrenceEndDate: "2026-04-01"}
	assert.Equal(t, "FREQ=DAILY;UNTIL=20260401T000000Z", RuleString(daily))

	assert.Empty(t, RuleString(models.ScheduleItem{}))
}

func TestParseRule(t *testing.T) {
	typ, days, until, err := ParseRule("FREQ=WEEKLY;BYDAY=WE,MO;UNTIL=20260401T000000Z")
	require.NoError(t, err)
	assert.Equal(t, constants.RecurrenceWeekly, typ)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, days)
	assert.Equal(t, "2026-04-01", until)

	typ, days, _, err = ParseRule("FREQ=DAILY")
	require.NoError(t, err)
	assert.Equal(t, constants.RecurrenceDaily, typ)
	assert.Nil(t, days)

	typ, days, _, err = ParseRule("FREQ=WEEKLY;BYDAY=SU,SA")
	require.NoError(t, err)
	assert.Equal(t, constants.RecurrenceWeekly, typ)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, days)

	_, _, _, err = ParseRule("FREQ=MONTHLY;BYMONTHDAY=1")
	assert.Error(t, err)
}

func TestExpandRange_AgreesWithItemsForDate(t *testing.T) {
	tmpl := weeklyMonWed()
	tmpl.RecurrenceEndDate = "2026-03-25"
	tmpl.ExcludedDates = []string{"2026-03-11"}
	daily := models.ScheduleItem{ID: "walk", Text: "Walk", Date: "2026-03-10", RecurrenceType: constants.RecurrenceDaily}
	items := []models.ScheduleItem{
		tmpl,
		{ID: "dentist", Text: "Dentist", Date: "2026-03-04"},
		daily,
	}

	from, to := day("2026-02-25"), day("2026-03-31")
	expanded := ExpandRange(items, from, to)

	var perDay []models.ScheduleItem
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		perDay = append(perDay, ItemsForDate(items, d)...)
	}

	ids := func(list []models.ScheduleItem) []string {
		out := make([]string, len(list))
		for i, it := range list {
			out[i] = it.ID
		}
		return out
	}
	assert.Equal(t, ids(perDay), ids(expanded))
	assert.NotContains(t, ids(expanded), "gym-2026-03-11")
	assert.NotContains(t, ids(expanded), "gym-2026-03-30")
}

func TestExpandRange_EmptyWhenReversed(t *testing.T) {
	assert.Empty(t, ExpandRange([]models.ScheduleItem{weeklyMonWed()}, day("2026-03-10"), day("2026-03-01")))
}
