package client

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength bounds the user-editable client name.
const MaxNameLength = 120

// Domain errors
var (
	ErrEmptyUserID  = errors.New("user_id is required")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNameTooLong  = errors.New("name cannot exceed 120 characters")
	ErrInvalidEmail = errors.New("email must contain '@'")
)

// Client is a person a user gives lessons to. Belongs to exactly one user.
type Client struct {
	ID        string
	UserID    string
	Name      string
	Email     string // optional
	CreatedAt time.Time
}

// Validate checks required fields for a Client.
// PRE: Client struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Client) Validate() error {
	if c.UserID == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
