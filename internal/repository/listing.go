package repository

import (
	"context"

	"car-market/internal/domain"
)

// ListingRepository exposes persistence operations for listings.
type ListingRepository interface {
	Init(ctx context.Context) error
	// Create assigns ID, CreatedAt and UpdatedAt before inserting.
	Create(ctx context.Context, listing *domain.Listing) error
	Get(ctx context.Context, id string) (*domain.Listing, error)
	// List returns every listing, most recently created first.
	List(ctx context.Context) ([]domain.Listing, error)
	// UpdateOwned applies patch only when the row still has the given owner.
	// It returns ErrNotFound when no such row exists.
	UpdateOwned(ctx context.Context, id, ownerID string, patch domain.ListingPatch) (*domain.Listing, error)
	// SetPhotoOwned records the photo key under the same condition as UpdateOwned.
	SetPhotoOwned(ctx context.Context, id, ownerID, photoKey string) (*domain.Listing, error)
	// DeleteOwned removes the row only when it still has the given owner.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}
