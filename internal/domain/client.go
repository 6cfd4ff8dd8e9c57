package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client-specific validation errors
var (
	ErrClientNameEmpty = errors.New("client name cannot be empty")
	ErrClientTagEmpty  = errors.New("client tag cannot be empty")
	ErrClientTagFormat = errors.New("client tag must be 1-10 letters or digits")
	ErrClientColor     = errors.New("client color must be in #RRGGBB form")
)

const maxTagLength = 10

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Client is a customer that work items can be billed against. Clients are
// shared by the whole team.
type Client struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Emoji string    `json:"emoji"`
	Color string    `json:"color"`
	// Tag is a short upper-case code, unique across clients.
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient creates a Client, trimming the name and upper-casing the tag.
func NewClient(name, emoji, color, tag string) (*Client, error) {
	c := &Client{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	c.apply(name, emoji, color, tag)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the client's attributes, leaving it unchanged on error.
func (c *Client) Update(name, emoji, color, tag string) error {
	orig := *c
	c.apply(name, emoji, color, tag)
	if err := c.Validate(); err != nil {
		*c = orig
		return err
	}
	return nil
}

func (c *Client) apply(name, emoji, color, tag string) {
	c.Name = strings.TrimSpace(name)
	c.Emoji = strings.TrimSpace(emoji)
	c.Color = strings.TrimSpace(color)
	c.Tag = NormalizeTag(tag)
}

// NormalizeTag returns the canonical stored form of a client tag.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// Validate checks if the Client has valid data.
func (c *Client) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.Name == "" {
		return NewValidationError("name", ErrClientNameEmpty.Error(), ErrClientNameEmpty)
	}
	if c.Tag == "" {
		return NewValidationError("tag", ErrClientTagEmpty.Error(), ErrClientTagEmpty)
	}
	if len(c.Tag) > maxTagLength || validate.Var(c.Tag, "alphanum") != nil {
		return NewValidationError("tag", ErrClientTagFormat.Error(), ErrClientTagFormat)
	}
	if !colorPattern.MatchString(c.Color) {
		return NewValidationError("color", ErrClientColor.Error(), ErrClientColor)
	}
	return nil
}
