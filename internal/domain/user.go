package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

const (
	minPasswordLength = 12
	// bcrypt ignores bytes beyond 72.
	maxPasswordLength = 72
	maxNameLength     = 100
)

var validate = validator.New()

// User is a team member who keeps activity cards.
type User struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
	// DefaultClientID is applied to items rolled over from the previous day.
	DefaultClientID *uuid.UUID `json:"default_client_id,omitempty"`
	Password        string     `json:"-"` // Plaintext, only present during registration
	HashedPassword  string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given email, display name and
// plaintext password. The caller hashes the password before storage.
// When name is blank the local part of the email is used.
func NewUser(email, name, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if err := validate.Var(u.Email, "email"); err != nil {
		return ErrInvalidEmail
	}

	if len(u.Name) > maxNameLength {
		return NewValidationError("name", "must be at most 100 characters", nil)
	}

	if u.DefaultClientID != nil && *u.DefaultClientID == uuid.Nil {
		return NewValidationError("default_client_id", "must be a valid ID", ErrInvalidID)
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < minPasswordLength:
			return ErrPasswordTooShort
		case len(u.Password) > maxPasswordLength:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Persisted users carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// UpdateProfile replaces the display name and avatar.
func (u *User) UpdateProfile(name, avatar string) error {
	origName, origAvatar := u.Name, u.Avatar
	u.Name = strings.TrimSpace(name)
	u.Avatar = strings.TrimSpace(avatar)

	if u.Name == "" {
		u.Name, u.Avatar = origName, origAvatar
		return NewValidationError("name", "cannot be empty", nil)
	}
	if err := u.Validate(); err != nil {
		u.Name, u.Avatar = origName, origAvatar
		return err
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}
