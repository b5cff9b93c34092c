package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thomas-vilte/commitintent/internal/cli/registry"
	"github.com/thomas-vilte/commitintent/internal/commands/analyze"
	"github.com/thomas-vilte/commitintent/internal/commands/cache"
	"github.com/thomas-vilte/commitintent/internal/commands/completion"
	"github.com/thomas-vilte/commitintent/internal/commands/config"
	"github.com/thomas-vilte/commitintent/internal/commands/globals"
	"github.com/thomas-vilte/commitintent/internal/commands/watch"
	cfg "github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/git"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/thomas-vilte/commitintent/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	logger.Initialize(false, false)

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting commitintent: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.FprintAppError(os.Stderr, err)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, error) {
	configPath := os.Getenv(globals.ConfigEnv)
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not get the user home directory: %w", err)
		}
		configPath = homeDir
	}

	cfgApp, err := cfg.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	// rewrite the file so keys added in newer versions show up in it
	if err := cfg.SaveConfig(cfgApp); err != nil {
		return nil, err
	}

	gitService := git.NewGitService()

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := map[string]registry.CommandFactory{
		"watch":      watch.NewWatchCommandFactory(gitService),
		"analyze":    analyze.NewAnalyzeCommandFactory(gitService),
		"config":     config.NewConfigCommandFactory(),
		"cache":      cache.NewCacheCommand(),
		"completion": completion.NewCompletionCommand(),
	}
	for name, factory := range factories {
		if err := registerCommand.Register(name, factory); err != nil {
			return nil, fmt.Errorf("error registering command '%s': %w", name, err)
		}
	}

	commands := registerCommand.CreateCommands()

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:                  "commitintent",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app_description", 0, nil),
		Flags:                 globals.Flags(translations),
		Commands:              commands,
		EnableShellCompletion: true,
	}, nil
}
