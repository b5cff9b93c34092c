package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/thomas-vilte/commitintent/internal/classifier"
	"github.com/thomas-vilte/commitintent/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/notify"
	"github.com/thomas-vilte/commitintent/internal/ports"
	"github.com/thomas-vilte/commitintent/internal/services"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/thomas-vilte/commitintent/internal/watcher"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	debounceFlag = "debounce"
	noStatusFlag = "no-status"
	copyKey      = "c"
)

// AnalyzerFactory builds the classifier used for a session.
type AnalyzerFactory func(ctx context.Context, cfg config.Config) ports.IntentAnalyzer

type WatchCommandFactory struct {
	in        io.Reader
	out       io.Writer
	git       ports.DiffProvider
	clipboard ports.ClipboardSink
	analyzer  AnalyzerFactory
}

func NewWatchCommandFactory(git ports.DiffProvider) *WatchCommandFactory {
	return &WatchCommandFactory{
		in:        os.Stdin,
		out:       os.Stdout,
		git:       git,
		clipboard: notify.NewClipboard(),
		analyzer: func(ctx context.Context, cfg config.Config) ports.IntentAnalyzer {
			return classifier.NewFromConfig(ctx, cfg)
		},
	}
}

func (f *WatchCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Aliases:   []string{"w"},
		Usage:     t.GetMessage("watch.usage", 0, nil),
		ArgsUsage: t.GetMessage("watch.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  debounceFlag,
				Usage: t.GetMessage("watch.flag_debounce", 0, nil),
			},
			&cli.BoolFlag{
				Name:  noStatusFlag,
				Usage: t.GetMessage("watch.flag_no_status", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.watchAction(t, cfg),
	}
}

func (f *WatchCommandFactory) watchAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if err := globals.Apply(ctx, command, cfg, t); err != nil {
			return err
		}

		roots := command.Args().Slice()
		if len(roots) == 0 {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("error getting working directory: %w", err)
			}
			roots = []string{cwd}
		}

		var provider config.Provider = config.NewFileProvider(ctx, cfg)
		if command.IsSet(debounceFlag) {
			delayMs := int(command.Int(debounceFlag))
			if delayMs < 0 {
				return fmt.Errorf("--%s cannot be negative", debounceFlag)
			}
			provider = debounceOverride{next: provider, delayMs: delayMs}
		}
		noStatus := command.Bool(noStatusFlag)

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return f.run(ctx, t, provider, roots, noStatus)
	}
}

func (f *WatchCommandFactory) run(ctx context.Context, t *i18n.Translations, provider config.Provider, roots []string, noStatus bool) error {
	source, err := watcher.New(roots...)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Debug(ctx, "error closing file watcher", "error", err)
		}
	}()

	banner := notify.NewTerminalBanner(f.out)
	status := ui.NewSpinnerStatus(f.out, func() bool {
		return !noStatus && provider.Snapshot().ShowStatusBar
	})

	detector := services.NewIntentDetector(
		f.git,
		f.analyzer(ctx, provider.Snapshot()),
		notify.NewNotifier(banner, notify.NewStatusLine(f.out)),
		status,
		provider,
		services.WithMessages(services.TranslatedMessages(t)),
		services.WithClipboard(f.clipboard),
	)

	listener := services.NewSaveListener(ctx, source, detector, provider)
	defer listener.Close()

	ui.PrintInfo(f.out, t.GetMessage("watch.started", source.DirCount(), map[string]interface{}{
		"Count": source.DirCount(),
		"Roots": strings.Join(roots, ", "),
	}))
	ui.PrintInfo(f.out, t.GetMessage("watch.hint", 0, nil))
	if !provider.Snapshot().Enabled {
		ui.PrintWarning(f.out, t.GetMessage("watch.disabled", 0, nil))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return source.Run(gctx)
	})
	g.Go(func() error {
		return f.readKeys(gctx, t, banner)
	})

	err = g.Wait()
	ui.PrintInfo(f.out, t.GetMessage("watch.stopped", 0, nil))
	return err
}

// readKeys triggers banner actions from lines typed on stdin. It returns when
// ctx is done; reaching EOF only stops reading.
func (f *WatchCommandFactory) readKeys(ctx context.Context, t *i18n.Translations, banner *notify.TerminalBanner) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f.in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if line == "" {
				continue
			}
			f.trigger(t, banner, line)
		}
	}
}

func (f *WatchCommandFactory) trigger(t *i18n.Translations, banner *notify.TerminalBanner, key string) {
	matched, err := banner.Trigger(key)
	switch {
	case err != nil:
		ui.FprintAppError(f.out, err, t)
	case !matched && strings.EqualFold(key, copyKey):
		ui.PrintWarning(f.out, t.GetMessage("watch.nothing_to_copy", 0, nil))
	case !matched:
		ui.PrintInfo(f.out, t.GetMessage("watch.hint", 0, nil))
	default:
		ui.PrintSuccess(f.out, t.GetMessage("pipeline.copied", 0, nil))
	}
}

// debounceOverride replaces the configured debounce delay with the --debounce value.
type debounceOverride struct {
	next    config.Provider
	delayMs int
}

func (d debounceOverride) Snapshot() config.Config {
	cfg := d.next.Snapshot()
	cfg.DebounceDelayMs = d.delayMs
	return cfg
}
