package validation

import (
	"regexp"

	"github.com/ringshq/rings/internal/apperr"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername enforces the registration rules: 3-50 characters,
// letters, numbers, and underscores only.
func ValidateUsername(username string) *apperr.Error {
	if username == "" {
		return apperr.Validation("Username is required", "username")
	}

	if len(username) < 3 || len(username) > 50 || !usernamePattern.MatchString(username) {
		return apperr.Validation("Username must be 3-50 characters and contain only letters, numbers, and underscores", "username")
	}

	return nil
}
