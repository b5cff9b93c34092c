package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/commitintent/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    models.InterpretedIntent
		display string
	}{
		{
			name:    "intent and message lines",
			raw:     "Intent: Feature\nMessage: Adds retry to the uploader",
			want:    models.InterpretedIntent{Category: "Feature", Detail: "Adds retry to the uploader"},
			display: "Feature: Adds retry to the uploader",
		},
		{
			name:    "prefixes are case-insensitive and CRLF is tolerated",
			raw:     "INTENT:  Bugfix \r\n\r\nmessage: fixes nil map write\r\n",
			want:    models.InterpretedIntent{Category: "Bugfix", Detail: "fixes nil map write"},
			display: "Bugfix: fixes nil map write",
		},
		{
			name:    "intent without message renders the raw text",
			raw:     "Intent: Refactor",
			want:    models.InterpretedIntent{Category: "Refactor"},
			display: "Intent: Intent: Refactor",
		},
		{
			name:    "free text falls back to the Intent category",
			raw:     "Looks like a documentation change",
			want:    models.InterpretedIntent{Category: "Intent", Detail: "Looks like a documentation change"},
			display: "Intent: Looks like a documentation change",
		},
		{
			name:    "empty Intent line falls back",
			raw:     "Intent:\nMessage: something",
			want:    models.InterpretedIntent{Category: "Intent", Detail: "Intent:\nMessage: something"},
			display: "Intent: Intent:\nMessage: something",
		},
		{
			name:    "last matching line wins",
			raw:     "Intent: Feature\nIntent: Test\nMessage: a\nMessage: b",
			want:    models.InterpretedIntent{Category: "Test", Detail: "b"},
			display: "Test: b",
		},
		{
			name:    "indented prefix is not recognized",
			raw:     "  Intent: Feature",
			want:    models.InterpretedIntent{Category: "Intent", Detail: "  Intent: Feature"},
			display: "Intent:   Intent: Feature",
		},
		{
			name:    "blank input is unknown",
			raw:     " \n\t ",
			want:    models.InterpretedIntent{Category: "Unknown"},
			display: "Intent:  \n\t ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := Parse(tt.raw)

			// Assert
			assert.Equal(t, tt.want.Category, got.Category)
			assert.Equal(t, tt.want.Detail, got.Detail)
			assert.Equal(t, tt.raw, got.Raw)
			assert.NotEmpty(t, got.Category)
			assert.Equal(t, tt.display, got.Display())
		})
	}
}
