package models

import "time"

// SaveEvent is one file-save notification from the event source.
type SaveEvent struct {
	Path      string
	Timestamp time.Time
}
