package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as observed in loc, normalized to
// midnight UTC. A nil loc means UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// AddDays shifts a calendar date by n days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d time.Time) time.Time {
	d = DateOf(d, time.UTC)
	// Weekday is 0 for Sunday; Monday-based offset is (wd+6)%7.
	return AddDays(d, -((int(d.Weekday()) + 6) % 7))
}

// WeekDates returns the seven dates, Monday through Sunday, of the week
// containing d shifted by offset weeks.
func WeekDates(d time.Time, offset int) []time.Time {
	start := AddDays(WeekStart(d), 7*offset)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = AddDays(start, i)
	}
	return days
}
