package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup or conditional write.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with existing data")
)
