package ports

import "github.com/thomas-vilte/commitintent/internal/models"

// NotificationSink is the primary notification surface: a dismissible banner
// with optional action buttons.
type NotificationSink interface {
	ShowBanner(message string, actions []models.Action) error
}

// StatusSink is the one-line fallback surface.
type StatusSink interface {
	SetText(text string) error
}

// StatusIndicator is the transient "working" indicator shown while a run is in flight.
type StatusIndicator interface {
	Update(text string)
	Clear()
}

// ClipboardSink receives text from user-initiated copy actions.
type ClipboardSink interface {
	SetText(text string) error
}
