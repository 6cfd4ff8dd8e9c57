package recurrence

import (
	"slices"
	"time"

	"github.com/phrazzld/standup-api/internal/domain"
)

// IsDue reports whether task should be materialized on date.
//
// Behavior by frequency:
//   - daily: always due
//   - weekly: due when the weekday of date (0 = Sunday) is in DaysOfWeek
//   - monthly: due when the day of date equals DayOfMonth, or, for
//     DayOfMonth == -1, when date is the last day of its month
//
// There is no clamping: a monthly task on day 31 is never due in a month
// with fewer days. Unknown frequencies and malformed schedules (weekly with
// no days, monthly with no day) are never due. Stored rows are not
// re-validated before resolution, so this function must not panic or
// error on bad input.
func IsDue(task domain.RecurringTask, date time.Time) bool {
	switch task.Frequency {
	case domain.FrequencyDaily:
		return true
	case domain.FrequencyWeekly:
		return slices.Contains(task.DaysOfWeek, int(date.Weekday()))
	case domain.FrequencyMonthly:
		if task.DayOfMonth == nil {
			return false
		}
		if *task.DayOfMonth == domain.LastDayOfMonthMarker {
			return date.Day() == LastDayOfMonth(date.Year(), date.Month())
		}
		return date.Day() == *task.DayOfMonth
	default:
		return false
	}
}

// LastDayOfMonth returns the number of days in month of year, accounting
// for leap years.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueOn returns the tasks that are due on date, preserving input order.
// The result is never nil.
func DueOn(tasks []domain.RecurringTask, date time.Time) []domain.RecurringTask {
	due := make([]domain.RecurringTask, 0, len(tasks))
	for _, t := range tasks {
		if IsDue(t, date) {
			due = append(due, t)
		}
	}
	return due
}
