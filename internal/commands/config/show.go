package config

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			if err := globals.Apply(ctx, command, cfg, t); err != nil {
				return err
			}

			ui.PrintSectionBanner(c.out, t.GetMessage("config.current", 0, nil))
			for _, key := range config.Keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				ui.PrintKeyValue(c.out, key, value)
			}
			_, _ = fmt.Fprintln(c.out)
			ui.PrintKeyValue(c.out, t.GetMessage("config.file_label", 0, nil), cfg.PathFile)
			return nil
		},
	}
}
