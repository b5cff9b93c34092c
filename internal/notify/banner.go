package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/thomas-vilte/commitintent/internal/models"
)

var (
	bannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)
	bannerAction = color.New(color.FgMagenta)
)

// TerminalBanner prints boxed notifications and keeps the actions of the
// latest one so a key press can trigger them.
type TerminalBanner struct {
	mu      sync.Mutex
	w       io.Writer
	actions []models.Action
}

func NewTerminalBanner(w io.Writer) *TerminalBanner {
	return &TerminalBanner{w: w}
}

func (b *TerminalBanner) ShowBanner(message string, actions []models.Action) error {
	var sb strings.Builder
	sb.WriteString(bannerBox.Render(message))
	sb.WriteString("\n")
	for _, a := range actions {
		sb.WriteString(bannerAction.Sprintf("  [%s] %s", a.Key, a.Label))
		sb.WriteString("\n")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := io.WriteString(b.w, sb.String()); err != nil {
		return fmt.Errorf("error writing banner: %w", err)
	}
	b.actions = append([]models.Action(nil), actions...)
	return nil
}

// Trigger runs the action bound to key on the latest banner. It reports
// whether an action matched.
func (b *TerminalBanner) Trigger(key string) (bool, error) {
	b.mu.Lock()
	var match *models.Action
	for i := range b.actions {
		if strings.EqualFold(b.actions[i].Key, key) {
			match = &b.actions[i]
			break
		}
	}
	b.mu.Unlock()

	if match == nil || match.Run == nil {
		return false, nil
	}
	return true, match.Run()
}

// StatusLine prints single-line messages.
type StatusLine struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStatusLine(w io.Writer) *StatusLine {
	return &StatusLine{w: w}
}

func (s *StatusLine) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, color.CyanString(text))
	return err
}
