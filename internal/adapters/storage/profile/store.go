package profile

import (
	"context"

	domain "lessondesk/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	Delete(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, accountID string, role string) error
}
