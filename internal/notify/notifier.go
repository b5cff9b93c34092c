package notify

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
	"github.com/thomas-vilte/commitintent/internal/ports"
)

// FallbackPrefix marks messages that reached the status line instead of the banner.
const FallbackPrefix = "✓ "

// Notifier renders a message on the banner and falls back to the status line
// when the banner is missing, fails or panics. It never returns an error.
type Notifier struct {
	primary  ports.NotificationSink
	fallback ports.StatusSink
}

func NewNotifier(primary ports.NotificationSink, fallback ports.StatusSink) *Notifier {
	return &Notifier{primary: primary, fallback: fallback}
}

func (n *Notifier) Notify(ctx context.Context, message string, actions ...models.Action) {
	if err := n.showBanner(message, actions); err != nil {
		logger.Debug(ctx, "banner unavailable, using status line", "error", err)
		n.showFallback(ctx, message)
	}
}

func (n *Notifier) showBanner(message string, actions []models.Action) (err error) {
	if n.primary == nil {
		return fmt.Errorf("no banner surface")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("banner panicked: %v", r)
		}
	}()
	return n.primary.ShowBanner(message, actions)
}

func (n *Notifier) showFallback(ctx context.Context, message string) {
	if n.fallback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(ctx, "status line panicked", "error", fmt.Sprint(r))
		}
	}()
	if err := n.fallback.SetText(FallbackPrefix + message); err != nil {
		logger.Warn(ctx, "status line failed", "error", err)
	}
}
