package intent

import (
	"strings"

	"github.com/thomas-vilte/commitintent/internal/models"
)

const (
	intentPrefix  = "intent:"
	messagePrefix = "message:"

	// FallbackCategory is used when the response carries no Intent: line.
	FallbackCategory = "Intent"
	// UnknownCategory is used for a blank response.
	UnknownCategory = "Unknown"
)

// Parse splits the classifier's free-text verdict into a category and a detail.
//
//	Intent: Feature
//	Message: Adds retry to the uploader
//
// yields {Feature, "Adds retry to the uploader"}. Prefixes are matched
// case-insensitively at the start of a line; the last matching line of each
// kind wins. Without a non-empty Intent: line the whole response becomes the detail.
func Parse(raw string) models.InterpretedIntent {
	if strings.TrimSpace(raw) == "" {
		return models.InterpretedIntent{Category: UnknownCategory, Raw: raw}
	}

	var category, detail string

	lines := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		if value, ok := cutPrefixFold(line, intentPrefix); ok {
			category = value
			continue
		}
		if value, ok := cutPrefixFold(line, messagePrefix); ok {
			detail = value
		}
	}

	if category == "" {
		return models.InterpretedIntent{Category: FallbackCategory, Detail: raw, Raw: raw}
	}

	return models.InterpretedIntent{Category: category, Detail: detail, Raw: raw}
}

func cutPrefixFold(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}
