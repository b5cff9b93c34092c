package config

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newPathCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: t.GetMessage("config.path_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			if err := globals.Apply(ctx, command, cfg, t); err != nil {
				return err
			}
			_, err := fmt.Fprintln(c.out, cfg.PathFile)
			return err
		},
	}
}
