package domain

import "time"

// User represents an account of the system.
type User struct {
	ID           string
	Username     string
	Email        string
	Bio          string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the owner view of the user.
func (u *User) Summary() OwnerSummary {
	return OwnerSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// ProfilePatch lists the profile fields a user may change. A nil field is left unchanged.
type ProfilePatch struct {
	Username *string
	Bio      *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.Bio == nil
}
