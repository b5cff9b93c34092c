package cache

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/commitintent/internal/cache"
	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/urfave/cli/v3"
)

type CacheCommand struct {
	out  io.Writer
	open func(cfg *config.Config) (*cache.Cache, error)
}

func NewCacheCommand() *CacheCommand {
	return &CacheCommand{
		out: os.Stdout,
		open: func(cfg *config.Config) (*cache.Cache, error) {
			return cache.NewCache(cfg.CacheTTL())
		},
	}
}

func (c *CacheCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := globals.Apply(ctx, cmd, cfg, t); err != nil {
						return err
					}

					cacheService, err := c.open(cfg)
					if err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
					}

					count := cacheService.Count()
					if err := cacheService.Clean(); err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
					}

					ui.PrintSuccess(c.out, t.GetMessage("cache.cleaned", count, map[string]interface{}{
						"Count": count,
					}))
					return nil
				},
			},
		},
	}
}
