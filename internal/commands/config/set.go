package config

import (
	"context"
	"errors"

	"github.com/thomas-vilte/commitintent/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "set",
		Usage:         t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage:     t.GetMessage("config.set_args_usage", 0, nil),
		ShellComplete: completion_helper.ConfigKeyComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			if err := globals.Apply(ctx, command, cfg, t); err != nil {
				return err
			}
			if command.Args().Len() < 2 {
				ui.PrintError(c.out, t.GetMessage("config.set_missing_args", 0, nil))
				return errors.New("missing arguments")
			}

			key := command.Args().Get(0)
			value := command.Args().Get(1)

			// validate on a copy so a rejected value never reaches the live config
			updated := *cfg
			if err := updated.Set(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(&updated); err != nil {
				return err
			}
			*cfg = updated

			shown, _ := cfg.Get(key)
			ui.PrintSuccess(c.out, t.GetMessage("config.saved", 0, map[string]interface{}{
				"Key":   key,
				"Value": shown,
			}))
			return nil
		},
	}
}
