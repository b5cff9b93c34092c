package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/commitintent/internal/config"
	domainErrors "github.com/thomas-vilte/commitintent/internal/errors"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/intent"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
	"github.com/thomas-vilte/commitintent/internal/ports"
)

// DisplayWindow is how long "Intent detected!" stays on the status indicator.
const DisplayWindow = 3 * time.Second

// Notifier renders user-facing messages and never fails.
type Notifier interface {
	Notify(ctx context.Context, message string, actions ...models.Action)
}

// Messages are the user-facing strings of a pipeline run.
type Messages struct {
	Analyzing  string
	Detected   string
	CopyAction string
	Copied     string
	Failure    string
}

func DefaultMessages() Messages {
	return Messages{
		Analyzing:  "Analyzing commit intent...",
		Detected:   "Intent detected!",
		CopyAction: "Copy to Clipboard",
		Copied:     "Copied to clipboard",
		Failure:    "Failed to detect commit intent",
	}
}

// TranslatedMessages returns the pipeline strings in the active language.
func TranslatedMessages(t *i18n.Translations) Messages {
	return Messages{
		Analyzing:  t.GetMessage("pipeline.analyzing", 0, nil),
		Detected:   t.GetMessage("pipeline.detected", 0, nil),
		CopyAction: t.GetMessage("pipeline.copy_action", 0, nil),
		Copied:     t.GetMessage("pipeline.copied", 0, nil),
		Failure:    t.GetMessage("pipeline.failure", 0, nil),
	}
}

// IntentDetector runs the save-to-notification pipeline for one file:
// repository probe, diff, classification, parsing, rendering.
type IntentDetector struct {
	git       ports.DiffProvider
	analyzer  ports.IntentAnalyzer
	notifier  Notifier
	status    ports.StatusIndicator
	clipboard ports.ClipboardSink
	config    config.Provider
	messages  Messages
	hold      time.Duration
	sleep     func(ctx context.Context, d time.Duration)
}

type DetectorOption func(*IntentDetector)

func WithMessages(m Messages) DetectorOption {
	return func(d *IntentDetector) { d.messages = m }
}

// WithDisplayWindow overrides DisplayWindow.
func WithDisplayWindow(hold time.Duration) DetectorOption {
	return func(d *IntentDetector) { d.hold = hold }
}

func WithClipboard(c ports.ClipboardSink) DetectorOption {
	return func(d *IntentDetector) { d.clipboard = c }
}

func NewIntentDetector(
	git ports.DiffProvider,
	analyzer ports.IntentAnalyzer,
	notifier Notifier,
	status ports.StatusIndicator,
	cfg config.Provider,
	opts ...DetectorOption,
) *IntentDetector {
	d := &IntentDetector{
		git:      git,
		analyzer: analyzer,
		notifier: notifier,
		status:   status,
		config:   cfg,
		messages: DefaultMessages(),
		hold:     DisplayWindow,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the interpreted intent of the file's working-tree changes.
// A nil result with a nil error means there is nothing to show: the file is
// outside a repository or has no usable diff.
func (d *IntentDetector) Detect(ctx context.Context, path string, cfg config.Config) (*models.InterpretedIntent, error) {
	log := logger.FromContext(ctx)

	if !d.git.IsRepository(ctx, path) {
		log.Debug("not in a git repository")
		return nil, nil
	}

	diff, err := d.git.GetDiff(ctx, path)
	if err != nil {
		return nil, err
	}
	if diff == "" {
		log.Debug("no diff to analyze")
		return nil, nil
	}

	raw, err := d.analyzer.Analyze(ctx, diff, cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, domainErrors.ErrEmptyIntent
	}

	parsed := intent.Parse(raw)
	log.Info("intent detected", "category", parsed.Category)
	return &parsed, nil
}

// Run executes one pipeline run and renders its outcome. Every failure,
// including a panic, is reported through the notifier and returned; the
// status indicator is always cleared before Run returns.
func (d *IntentDetector) Run(ctx context.Context, path string) (err error) {
	runID := uuid.NewString()
	ctx = logger.With(ctx, "run_id", runID[:8], "path", path)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = domainErrors.ErrInternal.WithError(fmt.Errorf("panic: %v", r))
			d.fail(ctx, err)
		}
	}()

	cfg := d.config.Snapshot()
	d.status.Update(d.messages.Analyzing)

	result, err := d.Detect(ctx, path, cfg)
	if err != nil {
		d.fail(ctx, err)
		return err
	}
	if result == nil {
		d.status.Clear()
		return nil
	}

	display := result.Display()
	d.notifier.Notify(ctx, display, d.copyAction(ctx, display))

	d.status.Update(d.messages.Detected)
	logger.Debug(ctx, "pipeline finished", "duration_ms", time.Since(start).Milliseconds())
	d.sleep(ctx, d.hold)
	d.status.Clear()
	return nil
}

func (d *IntentDetector) fail(ctx context.Context, err error) {
	logger.Error(ctx, "commit intent detection failed", err)
	d.status.Clear()
	d.notifier.Notify(ctx, fmt.Sprintf("%s: %v", d.messages.Failure, err))
}

func (d *IntentDetector) copyAction(ctx context.Context, text string) models.Action {
	return models.Action{
		Key:   "c",
		Label: d.messages.CopyAction,
		Run: func() error {
			if d.clipboard == nil {
				return fmt.Errorf("no clipboard available")
			}
			if err := d.clipboard.SetText(text); err != nil {
				return err
			}
			logger.Info(ctx, d.messages.Copied)
			return nil
		},
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
