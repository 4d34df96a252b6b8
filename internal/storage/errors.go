// Package storage defines the records persisted by the shortener and the
// sentinel errors shared by all storage implementations.
package storage

import "errors"

var (
	// ErrConflict is returned by WriteLink when the original URL is
	// already shortened. The existing record accompanies the error.
	ErrConflict = errors.New("data conflict")

	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("not found")

	// ErrUserExists is returned by CreateUser on a username collision.
	ErrUserExists = errors.New("user already exists")

	// ErrCodeTaken is returned by WriteLink when the generated short code
	// collides with an existing one. Callers report this as a failure,
	// generation is not retried.
	ErrCodeTaken = errors.New("short code taken")
)
