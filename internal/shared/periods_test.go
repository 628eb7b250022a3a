package shared

import (
	"testing"
	"time"
)

func TestCurrentMonthRange(t *testing.T) {
	now := time.Date(2025, time.February, 14, 17, 30, 12, 0, time.Local)
	r := CurrentMonthRange(now)
	if !r.Start.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected start %v", r.Start)
	}
	if !r.End.Equal(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected end %v", r.End)
	}
}

func TestCurrentMonthRangeLeapYear(t *testing.T) {
	now := time.Date(2024, time.February, 2, 3, 4, 5, 0, time.Local)
	r := CurrentMonthRange(now)
	if r.End.Day() != 29 {
		t.Fatalf("expected leap-day end, got %v", r.End)
	}
}

func TestInRangeInclusive(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.Local)
	if !InRange(start, start, end) {
		t.Fatalf("start must be in range")
	}
	if !InRange(end, start, end) {
		t.Fatalf("end must be in range")
	}
	if InRange(end.AddDate(0, 0, 1), start, end) {
		t.Fatalf("day after end must be out of range")
	}
	if InRange(start.AddDate(0, 0, -1), start, end) {
		t.Fatalf("day before start must be out of range")
	}
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, time.July, 31, 16, 45, 12, 999, time.Local)
	want := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.Local)
	if got := StartOfDay(ts); !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}

func TestMonthLabel(t *testing.T) {
	date := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.Local)
	if got := MonthLabel(date); got != "julio 2025" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := MonthFileLabel(date); got != "julio_2025" {
		t.Fatalf("unexpected file label %q", got)
	}
}
