package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency names how often a recurring task comes due.
type Frequency string

// Supported frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// LastDayOfMonthMarker as DayOfMonth means "the last calendar day of the month".
const LastDayOfMonthMarker = -1

// IsKnown reports whether f is one of the supported frequencies.
func (f Frequency) IsKnown() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurringTask is a user-owned template that pre-populates new activity
// cards on the dates its schedule selects.
type RecurringTask struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Text         string     `json:"text"`
	TimeEstimate *float64   `json:"time_estimate,omitempty"`
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	Frequency    Frequency  `json:"frequency"`
	// DaysOfWeek uses 0 = Sunday through 6 = Saturday. Weekly tasks only.
	DaysOfWeek []int `json:"days_of_week,omitempty"`
	// DayOfMonth is 1-31 or LastDayOfMonthMarker. Monthly tasks only.
	DayOfMonth *int      `json:"day_of_month,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalize trims the text and sorts and deduplicates DaysOfWeek.
func (t *RecurringTask) Normalize() {
	t.Text = strings.TrimSpace(t.Text)
	t.Frequency = Frequency(strings.ToLower(strings.TrimSpace(string(t.Frequency))))
	if len(t.DaysOfWeek) > 0 {
		days := slices.Clone(t.DaysOfWeek)
		slices.Sort(days)
		t.DaysOfWeek = slices.Compact(days)
	}
}

// Validate checks that the task is well formed and that exactly the
// schedule field matching its frequency is populated.
func (t *RecurringTask) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrEmptyUserID)
	}
	if strings.TrimSpace(t.Text) == "" {
		return NewValidationError("text", "cannot be empty", nil)
	}
	if t.TimeEstimate != nil && *t.TimeEstimate < 0 {
		return NewValidationError("time_estimate", "cannot be negative", nil)
	}
	if t.ClientID != nil && *t.ClientID == uuid.Nil {
		return NewValidationError("client_id", "must be a valid ID", ErrInvalidID)
	}

	switch t.Frequency {
	case FrequencyDaily:
		if len(t.DaysOfWeek) > 0 || t.DayOfMonth != nil {
			return NewValidationError("frequency", "daily tasks take no schedule fields", ErrInvalidSchedule)
		}
	case FrequencyWeekly:
		if t.DayOfMonth != nil {
			return NewValidationError("day_of_month", "not allowed for weekly tasks", ErrInvalidSchedule)
		}
		if len(t.DaysOfWeek) == 0 {
			return NewValidationError("days_of_week", "required for weekly tasks", ErrInvalidSchedule)
		}
		for _, d := range t.DaysOfWeek {
			if d < 0 || d > 6 {
				return NewValidationError("days_of_week",
					fmt.Sprintf("day %d out of range 0-6", d), ErrInvalidSchedule)
			}
		}
	case FrequencyMonthly:
		if len(t.DaysOfWeek) > 0 {
			return NewValidationError("days_of_week", "not allowed for monthly tasks", ErrInvalidSchedule)
		}
		if t.DayOfMonth == nil {
			return NewValidationError("day_of_month", "required for monthly tasks", ErrInvalidSchedule)
		}
		if d := *t.DayOfMonth; d != LastDayOfMonthMarker && (d < 1 || d > 31) {
			return NewValidationError("day_of_month",
				fmt.Sprintf("day %d must be 1-31 or -1", d), ErrInvalidSchedule)
		}
	default:
		return NewValidationError("frequency",
			fmt.Sprintf("unknown frequency %q", t.Frequency), ErrInvalidFrequency)
	}

	return nil
}
