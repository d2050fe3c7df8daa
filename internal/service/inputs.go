package service

import (
	"car-market/internal/domain"
	"car-market/internal/validate"
)

// ListingInput is the accepted shape of a new listing. Any other payload field,
// owner included, is dropped while decoding.
type ListingInput struct {
	Brand       *string          `json:"brand" validate:"required,min=1"`
	Model       *string          `json:"model" validate:"required,min=1"`
	Year        *validate.Integer `json:"year" validate:"required,min=1900,max=2030"`
	Price       *float64          `json:"price" validate:"required,min=0"`
	Description *string          `json:"description"`
}

func (in ListingInput) listing(ownerID string) *domain.Listing {
	l := &domain.Listing{OwnerID: ownerID}
	in.patch().Apply(l)
	return l
}

func (in ListingInput) patch() domain.ListingPatch {
	return domain.ListingPatch{
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year.IntPtr(),
		Price:       in.Price,
		Description: in.Description,
	}
}

// ListingUpdateInput is a partial listing. Absent fields keep their stored value.
type ListingUpdateInput struct {
	Brand       *string          `json:"brand" validate:"omitempty,min=1"`
	Model       *string          `json:"model" validate:"omitempty,min=1"`
	Year        *validate.Integer `json:"year" validate:"omitempty,min=1900,max=2030"`
	Price       *float64          `json:"price" validate:"omitempty,min=0"`
	Description *string          `json:"description"`
}

func (in ListingUpdateInput) patch() domain.ListingPatch {
	return domain.ListingPatch{
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year.IntPtr(),
		Price:       in.Price,
		Description: in.Description,
	}
}

// ProfileUpdateInput is a partial profile.
type ProfileUpdateInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=200"`
}

func (in ProfileUpdateInput) patch() domain.ProfilePatch {
	return domain.ProfilePatch{Username: in.Username, Bio: in.Bio}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
