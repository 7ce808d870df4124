package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2026, time.January, 31},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, time.Thursday, FirstWeekdayOfMonth(2026, time.October))
	assert.Equal(t, time.Sunday, FirstWeekdayOfMonth(2024, time.September))
	assert.Equal(t, time.Thursday, FirstWeekdayOfMonth(2024, time.February))
}

func TestWeekOf(t *testing.T) {
	ref := time.Date(2024, time.December, 31, 15, 30, 0, 0, time.UTC)
	week := WeekOf(ref)

	require.Len(t, week, DaysPerWeek)
	assert.Equal(t, time.Sunday, week[0].Weekday())
	assert.Equal(t, time.Saturday, week[6].Weekday())
	assert.Equal(t, time.Date(2024, time.December, 29, 15, 30, 0, 0, time.UTC), week[0])
	assert.Equal(t, time.Date(2025, time.January, 4, 15, 30, 0, 0, time.UTC), week[6])

	// A Sunday starts its own week.
	sunday := Day(2024, time.September, 1, time.UTC)
	assert.Equal(t, sunday, WeekOf(sunday)[0])
}

func TestViewTitle(t *testing.T) {
	ref := Day(2026, time.October, 17, time.UTC)

	assert.Equal(t, "October 2026", ViewTitle(LevelMonth, ref))
	assert.Equal(t, "Oct 11 - Oct 17, 2026", ViewTitle(LevelWeek, ref))
	assert.Equal(t, "Saturday, October 17, 2026", ViewTitle(LevelDay, ref))

	newYear := Day(2024, time.December, 31, time.UTC)
	assert.Equal(t, "Dec 29 - Jan 4, 2025", ViewTitle(LevelWeek, newYear))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-10-17", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Day(2026, time.October, 17, time.UTC), d)

	_, err = ParseDay("17/10/2026", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
