package application

import (
	"fmt"
	"strings"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts field names to space-separated words
// for more readable error messages (e.g., "deckName" -> "deck name")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"deckName":  "deck name",
		"noteID":    "note ID",
		"noteIDs":   "note IDs",
		"cardIDs":   "card IDs",
		"noteType":  "note type",
		"batchSize": "batch size",
		"itemKey":   "item key",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateIDs checks that a list of Anki ids is non-empty and holds only positive values
func ValidateIDs(fieldName string, ids []int64) error {
	if len(ids) == 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("at least one of %s is required", formatFieldName(fieldName)),
		}
	}
	for _, id := range ids {
		if id <= 0 {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("invalid id %d", id),
			}
		}
	}
	return nil
}

// ValidateFlag checks that flag is an Anki flag value (0-7)
func ValidateFlag(flag int) error {
	if !domain.ValidFlag(flag) {
		return &ValidationError{
			Field:   "flag",
			Message: fmt.Sprintf("flag must be between %d and %d, got %d", domain.FlagNone, domain.FlagPurple, flag),
		}
	}
	return nil
}

// ValidateDuplicatePolicy checks that policy is skip or add_anyway
func ValidateDuplicatePolicy(policy domain.DuplicatePolicy) error {
	if !policy.Valid() {
		return &ValidationError{
			Field:   "duplicatePolicy",
			Message: fmt.Sprintf("must be %q or %q, got %q", domain.DuplicateSkip, domain.DuplicateAddAnyway, policy),
		}
	}
	return nil
}
