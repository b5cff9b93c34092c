package completion_helper

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints all flags of the current command to facilitate shell completion.
// This is used to ensure flags are suggested even when the default urfave/cli completion might fail.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(cmd.Root().Writer, "-"+name)
			} else {
				_, _ = fmt.Fprintln(cmd.Root().Writer, "--"+name)
			}
		}
	}
}

// ConfigKeyComplete suggests configuration keys for the first argument of
// `config set`, then boolean literals for boolean keys.
func ConfigKeyComplete(_ context.Context, cmd *cli.Command) {
	args := cmd.Args().Slice()
	switch len(args) {
	case 0:
		for _, key := range config.Keys {
			_, _ = fmt.Fprintln(cmd.Root().Writer, key)
		}
	case 1:
		if config.IsBoolKey(strings.ToLower(args[0])) {
			_, _ = fmt.Fprintln(cmd.Root().Writer, "true")
			_, _ = fmt.Fprintln(cmd.Root().Writer, "false")
		}
	}
}
