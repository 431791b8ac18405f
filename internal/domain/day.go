package domain

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the canonical calendar-date format used everywhere.
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Day is a civil calendar date in canonical YYYY-MM-DD form, no time of day.
// Equality and ordering are plain string comparisons.
type Day string

// ParseDay validates and canonicalizes a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day(t.Format(DayLayout)), nil
}

// DayOf truncates a wall-clock time to its calendar date in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

func (d Day) String() string { return string(d) }

func (d Day) Valid() bool {
	_, err := time.Parse(DayLayout, string(d))
	return err == nil
}

// AddDays returns the day n calendar days after d (n may be negative).
// The zero Day is returned unchanged.
func (d Day) AddDays(n int) Day {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return d
	}
	return Day(t.AddDate(0, 0, n).Format(DayLayout))
}

// Weekday reports the weekday of d. Invalid days report Sunday.
func (d Day) Weekday() time.Weekday {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// WeekStart walks d back to the nearest given start-of-week day (inclusive).
func (d Day) WeekStart(start time.Weekday) Day {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return d
	}
	for t.Weekday() != start {
		t = t.AddDate(0, 0, -1)
	}
	return Day(t.Format(DayLayout))
}
