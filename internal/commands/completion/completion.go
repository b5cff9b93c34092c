package completion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/ui"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `#! /bin/bash

_commitintent_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _commitintent_bash_autocomplete commitintent
`

const zshCompletionScript = `#compdef commitintent

_commitintent() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _commitintent commitintent
`

const installMarker = "# commitintent shell completion"

const installInfo = `
` + installMarker + `
if command -v commitintent >/dev/null 2>&1; then
	source <(commitintent completion %s)
fi
`

type CompletionCommand struct {
	out io.Writer
}

func NewCompletionCommand() *CompletionCommand {
	return &CompletionCommand{out: os.Stdout}
}

func (c *CompletionCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "completion",
		Usage: t.GetMessage("completion.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "bash",
				Usage: t.GetMessage("completion.bash_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(c.out, bashCompletionScript)
					return err
				},
			},
			{
				Name:  "zsh",
				Usage: t.GetMessage("completion.zsh_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(c.out, zshCompletionScript)
					return err
				},
			},
			{
				Name:  "install",
				Usage: t.GetMessage("completion.install_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					home, err := os.UserHomeDir()
					if err != nil {
						return fmt.Errorf("error getting home directory: %w", err)
					}
					return c.install(t, os.Getenv("SHELL"), home)
				},
			},
		},
	}
}

// install appends the completion hook to the rc file of shell, once.
func (c *CompletionCommand) install(t *i18n.Translations, shell, home string) error {
	var rcFile, shellName string
	switch {
	case strings.Contains(shell, "zsh"):
		rcFile, shellName = filepath.Join(home, ".zshrc"), "zsh"
	case strings.Contains(shell, "bash"):
		rcFile, shellName = filepath.Join(home, ".bashrc"), "bash"
	default:
		return fmt.Errorf("%s", t.GetMessage("completion.unsupported_shell", 0, map[string]interface{}{"Shell": shell}))
	}

	if content, err := os.ReadFile(rcFile); err == nil && strings.Contains(string(content), installMarker) {
		ui.PrintInfo(c.out, t.GetMessage("completion.already_installed", 0, map[string]interface{}{"File": rcFile}))
		return nil
	}

	f, err := os.OpenFile(rcFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", rcFile, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, installInfo, shellName); err != nil {
		return fmt.Errorf("error writing %s: %w", rcFile, err)
	}

	ui.PrintSuccess(c.out, t.GetMessage("completion.installed", 0, map[string]interface{}{"File": rcFile}))
	return nil
}
