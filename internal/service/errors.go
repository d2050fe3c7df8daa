package service

import "errors"

var (
	// ErrListingNotFound is returned when no listing has the requested id.
	ErrListingNotFound = errors.New("car not found")
	// ErrNotOwner is returned when the caller tries to change a listing created by someone else.
	ErrNotOwner = errors.New("not authorized")
	// ErrUserNotFound is returned when the caller's profile does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when a profile update asks for another account's username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRegistrationPassword indicates the registration secret is incorrect.
	ErrInvalidRegistrationPassword = errors.New("invalid registration password")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username or email.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrPhotoStorageDisabled is returned by photo uploads when no bucket is configured.
	ErrPhotoStorageDisabled = errors.New("photo storage is not configured")
)
