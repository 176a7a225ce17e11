package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when email and password do not match an account
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidToken is returned for tokens that fail signature or format checks
	ErrInvalidToken = errors.New("invalid session token")

	// ErrSessionNotFound is returned when the token's session was deleted
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when the session or its token is past expiry
	ErrSessionExpired = errors.New("session expired")
)
