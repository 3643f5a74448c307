package database

import (
	"errors"
	"fmt"
)

// Sentinel errors for the database layer. Callers branch on these with
// errors.Is rather than string matching.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
)

// NewNotFoundError returns an error for a missing row, distinguishable from a
// hard database failure via IsNotFound.
func NewNotFoundError(kind, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
}

// IsNotFound reports whether err represents a legitimate empty state rather
// than a failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
