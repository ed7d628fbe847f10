// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when registering an email that is already taken,
	// whether caught by the pre-insert lookup or by the unique index.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrMissingFields is returned when name, email or password is empty.
	ErrMissingFields = errors.New("all fields are required")

	// ErrPasswordTooLong is returned when the password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password is too long")

	// ErrInvalidCredentials is returned when no account matches the login email.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordMismatch is returned when the account exists but the password is wrong.
	ErrPasswordMismatch = errors.New("password is not valid")
)
