package validation

import (
	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/apperr"
)

// ValidateRingID rejects malformed ids before any query runs, so a bad path
// segment is a 400, never a spurious 404.
func ValidateRingID(id string) *apperr.Error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("Invalid ring ID format", "")
	}
	return nil
}
