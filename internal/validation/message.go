package validation

import (
	"strings"

	"github.com/ringshq/rings/internal/apperr"
)

// ValidateMessageText checks the trimmed post text against the 1-5000
// character bound. The bound is in characters, not bytes.
func ValidateMessageText(text string) *apperr.Error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 {
		return apperr.Validation("Message cannot be empty.", "messageText")
	}

	if len([]rune(trimmed)) > 5000 {
		return apperr.Validation("Message must be 5000 characters or less.", "messageText")
	}

	return nil
}
