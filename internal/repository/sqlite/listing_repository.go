package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

const createListingsTable = `
CREATE TABLE IF NOT EXISTS listings (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL CHECK (year BETWEEN 1900 AND 2030),
	price REAL NOT NULL CHECK (price >= 0),
	description TEXT NOT NULL DEFAULT '',
	photo_key TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_listings_owner_id ON listings(owner_id);
`

const listingColumns = `id, owner_id, brand, model, year, price, description, photo_key, created_at, updated_at`

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createListingsTable); err != nil {
		return fmt.Errorf("create listings table: %w", err)
	}
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.ID = uuid.NewString()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO listings (`+listingColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID,
		listing.OwnerID,
		listing.Brand,
		listing.Model,
		listing.Year,
		listing.Price,
		listing.Description,
		listing.PhotoKey,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) Get(ctx context.Context, id string) (*domain.Listing, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+listingColumns+`
FROM listings
WHERE id = ?`,
		id,
	)
	return scanListing(row)
}

func (r *ListingRepository) List(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+listingColumns+`
FROM listings
ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}

	return listings, rows.Err()
}

func (r *ListingRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch domain.ListingPatch) (*domain.Listing, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Brand != nil {
		sets = append(sets, "brand = ?")
		args = append(args, *patch.Brand)
	}
	if patch.Model != nil {
		sets = append(sets, "model = ?")
		args = append(args, *patch.Model)
	}
	if patch.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *patch.Year)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}

	return r.updateOwned(ctx, id, ownerID, sets, args)
}

func (r *ListingRepository) SetPhotoOwned(ctx context.Context, id, ownerID, photoKey string) (*domain.Listing, error) {
	return r.updateOwned(ctx, id, ownerID,
		[]string{"updated_at = ?", "photo_key = ?"},
		[]any{time.Now().UTC(), photoKey},
	)
}

func (r *ListingRepository) updateOwned(ctx context.Context, id, ownerID string, sets []string, args []any) (*domain.Listing, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	args = append(args, id, ownerID)
	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE listings SET %s WHERE id = ? AND owner_id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("listing update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, fmt.Errorf("update listing: %w", repository.ErrNotFound)
	}

	listing, err := scanListing(tx.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit listing update: %w", err)
	}
	return listing, nil
}

func (r *ListingRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("delete listing: %w", repository.ErrNotFound)
	}
	return nil
}

func scanListing(scanner interface {
	Scan(dest ...any) error
}) (*domain.Listing, error) {
	var (
		listing   domain.Listing
		createdAt time.Time
		updatedAt time.Time
	)

	if err := scanner.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Brand,
		&listing.Model,
		&listing.Year,
		&listing.Price,
		&listing.Description,
		&listing.PhotoKey,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}

	listing.CreatedAt = createdAt.UTC()
	listing.UpdatedAt = updatedAt.UTC()
	return &listing, nil
}
