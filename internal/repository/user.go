package repository

import (
	"context"

	"car-market/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameExcept returns a user holding username whose id differs from excludeID.
	FindByUsernameExcept(ctx context.Context, username, excludeID string) (*domain.User, error)
	// Summaries returns owner views keyed by user id. Unknown ids are skipped.
	Summaries(ctx context.Context, ids []string) (map[string]domain.OwnerSummary, error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.User, error)
}
