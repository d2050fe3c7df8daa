package domain

import "time"

// Listing represents a car offered by the user who created it.
type Listing struct {
	ID          string
	OwnerID     string
	Brand       string
	Model       string
	Year        int
	Price       float64
	Description string
	PhotoKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userID created the listing.
func (l *Listing) OwnedBy(userID string) bool {
	return l != nil && l.OwnerID == userID
}

// ListingPatch lists the mutable listing fields. A nil field is left unchanged.
// ID and OwnerID are never patchable.
type ListingPatch struct {
	Brand       *string
	Model       *string
	Year        *int
	Price       *float64
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Brand == nil && p.Model == nil && p.Year == nil && p.Price == nil && p.Description == nil
}

// Apply copies the present fields onto l.
func (p ListingPatch) Apply(l *Listing) {
	if p.Brand != nil {
		l.Brand = *p.Brand
	}
	if p.Model != nil {
		l.Model = *p.Model
	}
	if p.Year != nil {
		l.Year = *p.Year
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
}

// OwnerSummary is the public view of a listing owner.
type OwnerSummary struct {
	ID       string
	Username string
	Email    string
}

// ListingDetails is a listing enriched for presentation.
type ListingDetails struct {
	Listing
	Owner    OwnerSummary
	PhotoURL string
}
