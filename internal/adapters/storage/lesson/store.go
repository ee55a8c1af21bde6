package lesson

import (
	"context"

	clientDomain "lessondesk/internal/domain/client"
	domain "lessondesk/internal/domain/lesson"
)

// WithClient pairs a lesson with its (optional) joined client record.
type WithClient struct {
	domain.Lesson
	Client *clientDomain.Client // nil when the lesson has no client
}

// ListFilter carries the transient UI filters shaping the lessons list.
// Filters are never persisted.
type ListFilter struct {
	ClientID string // restrict to one client
	Search   string // case-insensitive substring of subject
}

// Store persists Lesson state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Lesson, error)
	Save(ctx context.Context, value domain.Lesson) error
	Delete(ctx context.Context, id string) error
	// ListByUserID returns the user's lessons newest-first with the client
	// relation joined.
	ListByUserID(ctx context.Context, userID string, filter ListFilter) ([]WithClient, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}
