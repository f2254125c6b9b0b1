package validation

import (
	"strings"

	"github.com/ringshq/rings/internal/apperr"
)

// ValidateRingName checks the trimmed name against the 1-100 character bound.
func ValidateRingName(name string) *apperr.Error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 || len(trimmed) > 100 {
		return apperr.Validation("Ring name must be between 1 and 100 characters.", "name")
	}

	return nil
}
