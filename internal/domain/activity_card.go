package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")
	ErrCardDateEmpty   = errors.New("card date cannot be empty")
	ErrNegativeTime    = errors.New("time values cannot be negative")
)

// TaskItem is one entry in a card's "what I did" section.
type TaskItem struct {
	Text         string     `json:"text"`
	TimeEstimate *float64   `json:"time_estimate,omitempty"`
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	IsRecurring  bool       `json:"is_recurring"`
	// RecurringTaskID is set when the item was materialized from a template.
	RecurringTaskID *uuid.UUID `json:"recurring_task_id,omitempty"`
}

// ActivityCard is a user's standup log for one calendar date.
type ActivityCard struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Date             time.Time  `json:"date"`
	WhatIDid         []TaskItem `json:"what_i_did"`
	WhatBroke        []string   `json:"what_broke"`
	HowIFixed        []string   `json:"how_i_fixed"`
	TasksForTomorrow []string   `json:"tasks_for_tomorrow"`
	AdminTime        float64    `json:"admin_time"`
	MeetingTime      float64    `json:"meeting_time"`
	LastUpdated      time.Time  `json:"last_updated"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewActivityCard creates an empty card for userID on date, seeded with
// the given "what I did" items.
func NewActivityCard(userID uuid.UUID, date time.Time, items []TaskItem) (*ActivityCard, error) {
	if items == nil {
		items = []TaskItem{}
	}
	now := time.Now().UTC()
	card := &ActivityCard{
		ID:               uuid.New(),
		UserID:           userID,
		Date:             DateOf(date, time.UTC),
		WhatIDid:         items,
		WhatBroke:        []string{},
		HowIFixed:        []string{},
		TasksForTomorrow: []string{},
		LastUpdated:      now,
		CreatedAt:        now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the card has valid data. Item text is not required
// because cards are edited incrementally.
func (c *ActivityCard) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.UserID == uuid.Nil {
		return NewValidationError("user_id", ErrCardUserIDEmpty.Error(), ErrCardUserIDEmpty)
	}
	if c.Date.IsZero() {
		return NewValidationError("date", ErrCardDateEmpty.Error(), ErrCardDateEmpty)
	}
	if c.AdminTime < 0 {
		return NewValidationError("admin_time", ErrNegativeTime.Error(), ErrNegativeTime)
	}
	if c.MeetingTime < 0 {
		return NewValidationError("meeting_time", ErrNegativeTime.Error(), ErrNegativeTime)
	}
	for _, item := range c.WhatIDid {
		if item.TimeEstimate != nil && *item.TimeEstimate < 0 {
			return NewValidationError("what_i_did", ErrNegativeTime.Error(), ErrNegativeTime)
		}
	}
	return nil
}

// CardContent is the editable part of a card.
type CardContent struct {
	Date             time.Time
	WhatIDid         []TaskItem
	WhatBroke        []string
	HowIFixed        []string
	TasksForTomorrow []string
	AdminTime        float64
	MeetingTime      float64
}

// Replace overwrites every section of the card with content. The card is
// left unchanged when the result would be invalid.
func (c *ActivityCard) Replace(content CardContent) error {
	orig := *c

	if !content.Date.IsZero() {
		c.Date = DateOf(content.Date, time.UTC)
	}
	c.WhatIDid = nonNilItems(content.WhatIDid)
	c.WhatBroke = nonNilStrings(content.WhatBroke)
	c.HowIFixed = nonNilStrings(content.HowIFixed)
	c.TasksForTomorrow = nonNilStrings(content.TasksForTomorrow)
	c.AdminTime = content.AdminTime
	c.MeetingTime = content.MeetingTime

	if err := c.Validate(); err != nil {
		*c = orig
		return err
	}
	c.LastUpdated = time.Now().UTC()
	return nil
}

// ItemCount is the number of entries across all four list sections.
func (c *ActivityCard) ItemCount() int {
	return len(c.WhatIDid) + len(c.WhatBroke) + len(c.HowIFixed) + len(c.TasksForTomorrow)
}

// TotalHours sums item estimates plus admin and meeting time.
func (c *ActivityCard) TotalHours() float64 {
	total := c.AdminTime + c.MeetingTime
	for _, item := range c.WhatIDid {
		if item.TimeEstimate != nil {
			total += *item.TimeEstimate
		}
	}
	return total
}

func nonNilItems(items []TaskItem) []TaskItem {
	if items == nil {
		return []TaskItem{}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
