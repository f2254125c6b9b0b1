package validation

import (
	"github.com/ringshq/rings/internal/apperr"
)

// ValidatePassword enforces the password policy: at least 8 characters with
// at least one letter and one digit. Also caps at 72 bytes, the bcrypt
// input limit.
func ValidatePassword(password string) *apperr.Error {
	if password == "" {
		return apperr.Validation("Password is required", "password")
	}

	if len(password) > 72 {
		return apperr.Validation("Password must not exceed 72 characters", "password")
	}

	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}

	if len(password) < 8 || !hasLetter || !hasDigit {
		return apperr.Validation("Password must be at least 8 characters and contain at least one letter and one number", "password")
	}

	return nil
}
