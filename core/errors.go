package core

import "errors"

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write collides with an existing unique row
var ErrDuplicate = errors.New("already exists")

// ErrInvalidInput marks validation failures that callers should surface as client errors
var ErrInvalidInput = errors.New("invalid input")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error was caused by a unique constraint collision
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsInvalidInputError checks if an error was caused by a rejected input
func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
