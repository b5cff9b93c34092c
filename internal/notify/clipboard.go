package notify

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard.
type Clipboard struct{}

func NewClipboard() *Clipboard {
	return &Clipboard{}
}

func (Clipboard) SetText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("error writing to clipboard: %w", err)
	}
	return nil
}
