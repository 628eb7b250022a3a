package shared

import (
	"strings"
	"time"
)

// DateRange bounds an inclusive calendar interval. Both ends sit at local
// midnight so the range covers whole days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// CurrentMonthRange returns the first and last calendar day of now's month,
// both at local midnight.
func CurrentMonthRange(now time.Time) DateRange {
	year, month, _ := now.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	// Day zero of the next month is the last day of this one.
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location())
	return DateRange{Start: start, End: end}
}

// InRange reports inclusive membership: start <= date <= end.
func InRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// StartOfDay drops the time-of-day component, keeping the location.
// Range bounds sit at midnight, so timestamped dates must be truncated
// before day-membership tests.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	return InRange(date, r.Start, r.End)
}

// MonthLabel formats a date as a Spanish "month year" caption, e.g.
// "julio 2025". Used for filter captions and export filenames.
func MonthLabel(date time.Time) string {
	return spanishMonths[date.Month()-1] + " " + date.Format("2006")
}

// MonthFileLabel is MonthLabel with spaces made filename-safe.
func MonthFileLabel(date time.Time) string {
	return strings.ReplaceAll(MonthLabel(date), " ", "_")
}

// ISODate renders a date in the YYYY-MM-DD wire format the backend expects.
func ISODate(date time.Time) string {
	return date.Format("2006-01-02")
}
