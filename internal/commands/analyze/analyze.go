package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/thomas-vilte/commitintent/internal/classifier"
	"github.com/thomas-vilte/commitintent/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/notify"
	"github.com/thomas-vilte/commitintent/internal/ports"
	"github.com/thomas-vilte/commitintent/internal/services"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/urfave/cli/v3"
)

const copyFlag = "copy"

type AnalyzeCommandFactory struct {
	out       io.Writer
	git       ports.DiffProvider
	clipboard ports.ClipboardSink
	analyzer  func(ctx context.Context, cfg config.Config) ports.IntentAnalyzer
}

func NewAnalyzeCommandFactory(git ports.DiffProvider) *AnalyzeCommandFactory {
	return &AnalyzeCommandFactory{
		out:       os.Stdout,
		git:       git,
		clipboard: notify.NewClipboard(),
		analyzer: func(ctx context.Context, cfg config.Config) ports.IntentAnalyzer {
			return classifier.NewFromConfig(ctx, cfg)
		},
	}
}

func (f *AnalyzeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     t.GetMessage("analyze.usage", 0, nil),
		ArgsUsage: t.GetMessage("analyze.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  copyFlag,
				Usage: t.GetMessage("analyze.flag_copy", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.analyzeAction(t, cfg),
	}
}

func (f *AnalyzeCommandFactory) analyzeAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if err := globals.Apply(ctx, command, cfg, t); err != nil {
			return err
		}

		if command.Args().Len() < 1 {
			ui.PrintError(f.out, t.GetMessage("analyze.missing_file", 0, nil))
			return errors.New("missing file argument")
		}
		path, err := filepath.Abs(command.Args().First())
		if err != nil {
			return fmt.Errorf("error resolving path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return err
		}

		messages := services.TranslatedMessages(t)
		spinner := ui.NewSmartSpinner(f.out, messages.Analyzing)
		spinner.Start()

		start := time.Now()
		detector := services.NewIntentDetector(
			f.git,
			f.analyzer(ctx, *cfg),
			nil,
			nil,
			config.NewStaticProvider(*cfg),
			services.WithMessages(messages),
		)
		result, err := detector.Detect(ctx, path, *cfg)
		spinner.Stop()
		if err != nil {
			ui.PrintError(f.out, messages.Failure)
			return err
		}
		if result == nil {
			ui.PrintWarning(f.out, t.GetMessage("analyze.no_changes", 0, map[string]interface{}{
				"Path": path,
			}))
			return nil
		}

		ui.PrintDuration(f.out, messages.Detected, time.Since(start))
		if err := notify.NewTerminalBanner(f.out).ShowBanner(result.Display(), nil); err != nil {
			return err
		}

		if command.Bool(copyFlag) {
			if err := f.clipboard.SetText(result.Display()); err != nil {
				return err
			}
			ui.PrintSuccess(f.out, messages.Copied)
		}
		return nil
	}
}
