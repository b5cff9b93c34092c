// Package globals holds the root flags shared by every command.
package globals

import (
	"context"

	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/urfave/cli/v3"
)

const (
	DebugFlag   = "debug"
	VerboseFlag = "verbose"
	ConfigFlag  = "config"

	// ConfigEnv points at a config file when --config is not given.
	ConfigEnv = "COMMITINTENT_CONFIG"
)

func Flags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  DebugFlag,
			Usage: t.GetMessage("flag.debug", 0, nil),
		},
		&cli.BoolFlag{
			Name:    VerboseFlag,
			Aliases: []string{"v"},
			Usage:   t.GetMessage("flag.verbose", 0, nil),
		},
		&cli.StringFlag{
			Name:  ConfigFlag,
			Usage: t.GetMessage("flag.config", 0, nil),
		},
	}
}

// Apply installs the logger for the requested verbosity and, when --config
// names another file, loads it into cfg and switches the language.
func Apply(ctx context.Context, cmd *cli.Command, cfg *config.Config, t *i18n.Translations) error {
	logger.Initialize(cmd.Bool(DebugFlag), cmd.Bool(VerboseFlag))

	path := cmd.String(ConfigFlag)
	if path == "" || config.ResolvePath(path) == cfg.PathFile {
		return nil
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	*cfg = *loaded

	if err := t.SetLanguage(cfg.Language); err != nil {
		logger.Warn(ctx, "unsupported language, keeping the current one", "language", cfg.Language)
	}
	return nil
}
