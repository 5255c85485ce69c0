package users

import "errors"

var (
	ErrMissingFullName        = errors.New("full name is required")
	ErrMissingEmail           = errors.New("email is required")
	ErrMissingPassword        = errors.New("password is required")
	ErrEmailAlreadyRegistered = errors.New("Email already registered")
	ErrInvalidCredentials     = errors.New("Invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
)
