package service

import (
	"time"

	"github.com/phrazzld/standup-api/internal/domain"
)

// Calendar resolves "today" in the team's timezone.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar returns a Calendar for loc using the wall clock. A nil loc
// means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

// Today returns the current calendar date in the calendar's location.
func (c Calendar) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return domain.DateOf(now(), c.Location)
}

// DateOrToday normalizes d to a calendar date, defaulting to Today when
// d is nil or zero.
func (c Calendar) DateOrToday(d *time.Time) time.Time {
	if d == nil || d.IsZero() {
		return c.Today()
	}
	return domain.DateOf(*d, time.UTC)
}
