package service

import "errors"

var (
	// ErrInvalidOrExpiredToken is the single public failure for the
	// verify operation. Nonexistent, expired and already-consumed tokens
	// all collapse into it so that responses leak nothing about token or
	// account state.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidMonth       = errors.New("invalid month, expected YYYY-MM")
)
