package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	monthTitleLayout   = "January 2006"
	weekStartLayout    = "Jan 2"
	weekEndLayout      = "Jan 2, 2006"
	dayTitleLayout     = "Monday, January 2, 2006"
	shortWeekdayLayout = "Mon"

	// DateLayout is the wire format of a calendar day.
	DateLayout = "2006-01-02"

	// DaysPerWeek is the width of the month and week grids.
	DaysPerWeek = 7
)

// ErrInvalidDate is returned for a day that is not in DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// WeekdayHeaders are the column headings of the month and week grids.
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day returns midnight of the given calendar day in loc. Every date that is
// stored or compared by this package should be built here, so equal days are
// equal instants.
func Day(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Truncate returns midnight of the calendar day t falls on, in t's location.
func Truncate(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day(), t.Location())
}

// ParseDay parses a YYYY-MM-DD string into midnight of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysInMonth returns the number of days in month. Day 0 of the next month
// normalizes to the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st of month.
func FirstWeekdayOfMonth(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// WeekOf returns the seven days from the Sunday on or before date through the
// following Saturday. The time of day and location of date are kept.
func WeekOf(date time.Time) []time.Time {
	sunday := date.AddDate(0, 0, -int(date.Weekday()))
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// ViewTitle returns the heading shown above the grid for level.
func ViewTitle(level Level, ref time.Time) string {
	switch level {
	case LevelWeek:
		week := WeekOf(ref)
		return week[0].Format(weekStartLayout) + " - " + week[DaysPerWeek-1].Format(weekEndLayout)
	case LevelDay:
		return ref.Format(dayTitleLayout)
	default:
		return ref.Format(monthTitleLayout)
	}
}
