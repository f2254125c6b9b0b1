package repository

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrRingNotFound        = errors.New("ring not found")
	ErrDuplicateRingName   = errors.New("ring name already exists")
	ErrDuplicateMembership = errors.New("membership already exists")
)

// isUniqueViolation reports whether err is a storage-level uniqueness
// constraint failure. String matching works for both SQLite and PostgreSQL
// and is the only portable signal the drivers expose.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "duplicate key value")
}
