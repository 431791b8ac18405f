package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != "2024-01-02" {
		t.Fatalf("got %q", d)
	}
	for _, bad := range []string{"", "2024-1-2", "02-01-2024", "2024-13-01", "2024-02-30", "yesterday"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestAddDaysAcrossBoundaries(t *testing.T) {
	d := Day("2024-03-01")
	if got := d.AddDays(-1); got != "2024-02-29" {
		t.Fatalf("leap day: got %s", got)
	}
	if got := d.AddDays(31); got != "2024-04-01" {
		t.Fatalf("month roll: got %s", got)
	}
	if got := Day("2024-01-01").AddDays(-1); got != "2023-12-31" {
		t.Fatalf("year roll: got %s", got)
	}
}

func TestWeekStart(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	d := Day("2024-01-03")
	if got := d.WeekStart(time.Monday); got != "2024-01-01" {
		t.Fatalf("monday start: got %s", got)
	}
	if got := d.WeekStart(time.Sunday); got != "2023-12-31" {
		t.Fatalf("sunday start: got %s", got)
	}
	if got := Day("2024-01-01").WeekStart(time.Monday); got != "2024-01-01" {
		t.Fatalf("already at start: got %s", got)
	}
}

func TestDayOf(t *testing.T) {
	ts := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	if got := DayOf(ts); got != "2024-06-15" {
		t.Fatalf("got %s", got)
	}
}
