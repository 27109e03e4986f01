package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the presented bearer token matches no live session
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidState indicates the OAuth state parameter failed verification
	ErrInvalidState = errors.New("invalid oauth state")
)
