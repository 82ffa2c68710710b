package user

import "errors"

// Sentinel errors returned by the account store. Messages are client-facing.
var (
	ErrInvalidInput          = errors.New("Invalid input provided")
	ErrUserNotFound          = errors.New("User not found")
	ErrUsernameAlreadyExists = errors.New("Username already exists")
	ErrInvalidCredentials    = errors.New("Invalid credentials")

	// wraps driver failures the store cannot classify
	ErrDatabaseError = errors.New("Database operation failed")
)
