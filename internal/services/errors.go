package services

import "errors"

// Sentinel errors handlers map onto HTTP statuses. Handlers never string-match
// storage errors; anything not wrapped in one of these is a 500.
var (
	// ErrNotFound means the requested row does not exist (or is filtered
	// out by the caller's visibility tier).
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint (slug, email) would break.
	ErrConflict = errors.New("already exists")

	// ErrUnavailable means no database is configured. List operations
	// tolerate this by returning empty results; everything else surfaces it.
	ErrUnavailable = errors.New("database not configured")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// indistinguishably.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSlug means a caller-supplied slug is not URL-safe.
	ErrInvalidSlug = errors.New("invalid slug")
)
