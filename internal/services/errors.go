package services

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a uniqueness constraint is violated.
var ErrConflict = errors.New("record already exists")

// ErrInvalidCredentials is returned for any username/password mismatch. The
// same value covers unknown usernames and wrong passwords so callers cannot
// tell which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidReference is returned when a payload references records that do
// not all exist.
var ErrInvalidReference = errors.New("referenced record is invalid")

// isUniqueViolation reports whether err is the store's own uniqueness signal.
// Treating it like a pre-check conflict closes the race window between
// check and insert.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
