package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/standup-api/internal/domain"
	"github.com/phrazzld/standup-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"max=100"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// TaskItemPayload is a "what I did" entry on the wire.
type TaskItemPayload struct {
	Text            string     `json:"text"                        validate:"max=500"`
	TimeEstimate    *float64   `json:"time_estimate,omitempty"     validate:"omitempty,gte=0,lte=24"`
	ClientID        *uuid.UUID `json:"client_id,omitempty"`
	IsRecurring     bool       `json:"is_recurring"`
	RecurringTaskID *uuid.UUID `json:"recurring_task_id,omitempty"`
}

// CreateCardRequest defines the payload for POST /cards. An empty date
// means today in the server's timezone.
type CreateCardRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateCardRequest replaces every section of a card. An empty date keeps
// the card's current date.
type UpdateCardRequest struct {
	Date             string            `json:"date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	WhatIDid         []TaskItemPayload `json:"what_i_did"         validate:"dive"`
	WhatBroke        []string          `json:"what_broke"         validate:"dive,max=500"`
	HowIFixed        []string          `json:"how_i_fixed"        validate:"dive,max=500"`
	TasksForTomorrow []string          `json:"tasks_for_tomorrow" validate:"dive,max=500"`
	AdminTime        float64           `json:"admin_time"         validate:"gte=0,lte=24"`
	MeetingTime      float64           `json:"meeting_time"       validate:"gte=0,lte=24"`
}

// CardResponse is an activity card on the wire.
type CardResponse struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	Date             string            `json:"date"`
	WhatIDid         []TaskItemPayload `json:"what_i_did"`
	WhatBroke        []string          `json:"what_broke"`
	HowIFixed        []string          `json:"how_i_fixed"`
	TasksForTomorrow []string          `json:"tasks_for_tomorrow"`
	AdminTime        float64           `json:"admin_time"`
	MeetingTime      float64           `json:"meeting_time"`
	TotalHours       float64           `json:"total_hours"`
	LastUpdated      time.Time         `json:"last_updated"`
	CreatedAt        time.Time         `json:"created_at"`
}

// RecurringTaskRequest defines the payload for creating or replacing a
// recurring task. Frequency is checked against the schedule fields by the
// domain, so an unknown value is reported as a validation error there.
type RecurringTaskRequest struct {
	Text         string     `json:"text"                    validate:"required,max=500"`
	TimeEstimate *float64   `json:"time_estimate,omitempty" validate:"omitempty,gte=0,lte=24"`
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	Frequency    string     `json:"frequency"               validate:"required"`
	DaysOfWeek   []int      `json:"days_of_week,omitempty"`
	DayOfMonth   *int       `json:"day_of_month,omitempty"`
}

// RecurringTaskResponse is a recurring task on the wire.
type RecurringTaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Text         string     `json:"text"`
	TimeEstimate *float64   `json:"time_estimate,omitempty"`
	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	Frequency    string     `json:"frequency"`
	DaysOfWeek   []int      `json:"days_of_week,omitempty"`
	DayOfMonth   *int       `json:"day_of_month,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DueTasksResponse previews the recurring items a card for Date would get.
type DueTasksResponse struct {
	Date  string                  `json:"date"`
	Tasks []RecurringTaskResponse `json:"tasks"`
}

// ClientRequest defines the payload for creating or replacing a client.
type ClientRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Emoji string `json:"emoji" validate:"max=16"`
	Color string `json:"color" validate:"required"`
	Tag   string `json:"tag"   validate:"required,max=10,alphanum"`
}

// ClientResponse is a client on the wire.
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest defines the payload for PUT /users/me.
type UpdateProfileRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Avatar string `json:"avatar" validate:"omitempty,url,max=2048"`
}

// DefaultClientRequest sets or, with a null client_id, clears the
// user's default client.
type DefaultClientRequest struct {
	ClientID *uuid.UUID `json:"client_id"`
}

// UserResponse is a user on the wire. Credentials never leave the server.
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Avatar          string     `json:"avatar,omitempty"`
	DefaultClientID *uuid.UUID `json:"default_client_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DaySummaryResponse is one cell of the weekly grid.
type DaySummaryResponse struct {
	Date       string     `json:"date"`
	CardID     *uuid.UUID `json:"card_id"`
	ItemCount  int        `json:"item_count"`
	TotalHours float64    `json:"total_hours"`
}

// UserWeekResponse is one row of the weekly grid.
type UserWeekResponse struct {
	User UserResponse         `json:"user"`
	Days []DaySummaryResponse `json:"days"`
}

// WeekSummaryResponse is the weekly team grid.
type WeekSummaryResponse struct {
	Offset    int                `json:"offset"`
	WeekStart string             `json:"week_start"`
	Dates     []string           `json:"dates"`
	Users     []UserWeekResponse `json:"users"`
}

func itemsToPayload(items []domain.TaskItem) []TaskItemPayload {
	out := make([]TaskItemPayload, len(items))
	for i, item := range items {
		out[i] = TaskItemPayload(item)
	}
	return out
}

func payloadToItems(payload []TaskItemPayload) []domain.TaskItem {
	out := make([]domain.TaskItem, len(payload))
	for i, p := range payload {
		out[i] = domain.TaskItem(p)
	}
	return out
}

func cardToResponse(card *domain.ActivityCard) CardResponse {
	return CardResponse{
		ID:               card.ID,
		UserID:           card.UserID,
		Date:             domain.FormatDate(card.Date),
		WhatIDid:         itemsToPayload(card.WhatIDid),
		WhatBroke:        nonNil(card.WhatBroke),
		HowIFixed:        nonNil(card.HowIFixed),
		TasksForTomorrow: nonNil(card.TasksForTomorrow),
		AdminTime:        card.AdminTime,
		MeetingTime:      card.MeetingTime,
		TotalHours:       card.TotalHours(),
		LastUpdated:      card.LastUpdated,
		CreatedAt:        card.CreatedAt,
	}
}

func cardsToResponse(cards []*domain.ActivityCard) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, card := range cards {
		out[i] = cardToResponse(card)
	}
	return out
}

func (req RecurringTaskRequest) toInput() service.RecurringTaskInput {
	return service.RecurringTaskInput{
		Text:         req.Text,
		TimeEstimate: req.TimeEstimate,
		ClientID:     req.ClientID,
		Frequency:    domain.Frequency(req.Frequency),
		DaysOfWeek:   req.DaysOfWeek,
		DayOfMonth:   req.DayOfMonth,
	}
}

func recurringTaskToResponse(task domain.RecurringTask) RecurringTaskResponse {
	return RecurringTaskResponse{
		ID:           task.ID,
		UserID:       task.UserID,
		Text:         task.Text,
		TimeEstimate: task.TimeEstimate,
		ClientID:     task.ClientID,
		Frequency:    string(task.Frequency),
		DaysOfWeek:   task.DaysOfWeek,
		DayOfMonth:   task.DayOfMonth,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func recurringTasksToResponse(tasks []domain.RecurringTask) []RecurringTaskResponse {
	out := make([]RecurringTaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = recurringTaskToResponse(task)
	}
	return out
}

func (req ClientRequest) toInput() service.ClientInput {
	return service.ClientInput{Name: req.Name, Emoji: req.Emoji, Color: req.Color, Tag: req.Tag}
}

func clientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Emoji:     client.Emoji,
		Color:     client.Color,
		Tag:       client.Tag,
		CreatedAt: client.CreatedAt,
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Avatar:          user.Avatar,
		DefaultClientID: user.DefaultClientID,
		CreatedAt:       user.CreatedAt,
	}
}

func weekToResponse(week *service.WeekSummary) WeekSummaryResponse {
	dates := make([]string, len(week.Dates))
	for i, d := range week.Dates {
		dates[i] = domain.FormatDate(d)
	}

	users := make([]UserWeekResponse, len(week.Rows))
	for i, row := range week.Rows {
		days := make([]DaySummaryResponse, len(row.Days))
		for j, day := range row.Days {
			days[j] = DaySummaryResponse{
				Date:       domain.FormatDate(day.Date),
				CardID:     day.CardID,
				ItemCount:  day.ItemCount,
				TotalHours: day.TotalHours,
			}
		}
		users[i] = UserWeekResponse{User: userToResponse(row.User), Days: days}
	}

	return WeekSummaryResponse{
		Offset:    week.Offset,
		WeekStart: domain.FormatDate(week.WeekStart),
		Dates:     dates,
		Users:     users,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
