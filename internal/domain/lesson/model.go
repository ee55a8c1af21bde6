package lesson

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxSubjectLength = 200
	MaxNotesLength   = 10000
)

// Domain errors
var (
	ErrEmptyUserID     = errors.New("user_id is required")
	ErrEmptySubject    = errors.New("subject cannot be empty")
	ErrSubjectTooLong  = errors.New("subject cannot exceed 200 characters")
	ErrNotesTooLong    = errors.New("notes cannot exceed 10000 characters")
	ErrInvalidDuration = errors.New("duration must be between 0 and 600 minutes")
)

// Lesson is a single tracked lesson. Belongs to exactly one user and
// optionally references one of that user's clients.
type Lesson struct {
	ID              string
	UserID          string
	ClientID        string // optional relation to Client
	Subject         string
	Notes           string // markdown, rendered escaped
	DurationMinutes int
	CreatedAt       time.Time
}

// Validate checks required fields for a Lesson.
// PRE: Lesson struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (l *Lesson) Validate() error {
	if l.UserID == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(l.Subject) == "" {
		return ErrEmptySubject
	}
	if len(l.Subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	if len(l.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if l.DurationMinutes < 0 || l.DurationMinutes > 600 {
		return ErrInvalidDuration
	}
	return nil
}

// HasClient returns true if the lesson references a client.
// INVARIANT: l is not mutated
func (l Lesson) HasClient() bool {
	return l.ClientID != ""
}
