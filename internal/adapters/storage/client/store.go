package client

import (
	"context"

	domain "lessondesk/internal/domain/client"
)

// Store persists Client state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Client, error)
	Save(ctx context.Context, value domain.Client) error
	Delete(ctx context.Context, id string) error
	// ListByUserID returns the user's clients ordered by name.
	ListByUserID(ctx context.Context, userID string) ([]domain.Client, error)
}
