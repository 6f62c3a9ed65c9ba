package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func easternTime(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, Location())
}

func TestCurrentPayrollPeriodAllWeekdays(t *testing.T) {
	// Week anchored on Friday 2026-03-06 → Thursday 2026-03-12.
	tests := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{"friday", easternTime(2026, time.March, 6, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"saturday", easternTime(2026, time.March, 7, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"sunday", easternTime(2026, time.March, 8, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"monday", easternTime(2026, time.March, 9, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"tuesday", easternTime(2026, time.March, 10, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"wednesday", easternTime(2026, time.March, 11, 10, 0, 0), "2026-03-06", "2026-03-12"},
		{"thursday morning", easternTime(2026, time.March, 12, 10, 0, 0), "2026-03-06", "2026-03-12"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			period := CurrentPayrollPeriod(tc.now)
			assert.Equal(t, tc.wantStart, period.StartDate)
			assert.Equal(t, tc.wantEnd, period.EndDate)
			assert.Equal(t, time.Friday, period.Start.Weekday())
			assert.Equal(t, time.Thursday, period.End.Weekday())
		})
	}
}

func TestThursdayCutoffBoundary(t *testing.T) {
	// 2026-03-12 is a Thursday.
	before := CurrentPayrollPeriod(easternTime(2026, time.March, 12, 14, 59, 59))
	assert.Equal(t, "2026-03-12", before.EndDate, "14:59:59 stays in the week ending today")

	atCutoff := CurrentPayrollPeriod(easternTime(2026, time.March, 12, 15, 0, 0))
	assert.Equal(t, "2026-03-13", atCutoff.StartDate, "15:00:00 exactly shifts to next week")
	assert.Equal(t, "2026-03-19", atCutoff.EndDate)

	after := CurrentPayrollPeriod(easternTime(2026, time.March, 12, 18, 30, 0))
	assert.Equal(t, "2026-03-19", after.EndDate)
}

func TestCutoffOnlyAppliesOnThursday(t *testing.T) {
	// Late evening on other weekdays never shifts the window.
	wednesday := CurrentPayrollPeriod(easternTime(2026, time.March, 11, 23, 0, 0))
	assert.Equal(t, "2026-03-06", wednesday.StartDate)

	friday := CurrentPayrollPeriod(easternTime(2026, time.March, 13, 16, 0, 0))
	assert.Equal(t, "2026-03-13", friday.StartDate)
	assert.Equal(t, "2026-03-19", friday.EndDate)
}

func TestPeriodAcrossDSTTransition(t *testing.T) {
	// US DST starts Sunday 2026-03-08 02:00 Eastern; the period containing it
	// must still span Friday 03-06 → Thursday 03-12 on the wall clock.
	period := CurrentPayrollPeriod(easternTime(2026, time.March, 9, 9, 0, 0))
	assert.Equal(t, "2026-03-06", period.StartDate)
	assert.Equal(t, "2026-03-12", period.EndDate)
}

func TestIsWithinCutoff(t *testing.T) {
	assert.True(t, IsWithinCutoff(easternTime(2026, time.March, 9, 10, 0, 0)), "monday")
	assert.True(t, IsWithinCutoff(easternTime(2026, time.March, 12, 14, 59, 0)), "thursday before 3pm")
	assert.False(t, IsWithinCutoff(easternTime(2026, time.March, 12, 15, 0, 0)), "thursday at 3pm")
	assert.False(t, IsWithinCutoff(easternTime(2026, time.March, 13, 9, 0, 0)), "friday")
	assert.False(t, IsWithinCutoff(easternTime(2026, time.March, 14, 9, 0, 0)), "saturday")
	assert.True(t, IsWithinCutoff(easternTime(2026, time.March, 15, 9, 0, 0)), "sunday")
}

func TestRecentPeriods(t *testing.T) {
	periods := RecentPeriods(easternTime(2026, time.March, 10, 10, 0, 0), 3)
	require.Len(t, periods, 3)
	assert.Equal(t, "2026-03-06", periods[0].StartDate)
	assert.Equal(t, "2026-02-27", periods[1].StartDate)
	assert.Equal(t, "2026-02-20", periods[2].StartDate)
	for _, p := range periods {
		assert.Equal(t, time.Friday, p.Start.Weekday())
		assert.Equal(t, time.Thursday, p.End.Weekday())
	}
}
