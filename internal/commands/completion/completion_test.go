package completion

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/urfave/cli/v3"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return translations
}

func TestCompletionScripts(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "complete -o bashdefault"},
		{shell: "zsh", want: "#compdef commitintent"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out := &bytes.Buffer{}
			command := &CompletionCommand{out: out}
			app := &cli.Command{
				Name:     "commitintent",
				Commands: []*cli.Command{command.CreateCommand(newTranslations(t), config.Default())},
			}

			err := app.Run(context.Background(), []string{"commitintent", "completion", tt.shell})

			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCompletionInstall(t *testing.T) {
	color.NoColor = true

	t.Run("should append the hook once", func(t *testing.T) {
		// Arrange
		home := t.TempDir()
		out := &bytes.Buffer{}
		command := &CompletionCommand{out: out}
		translations := newTranslations(t)

		// Act
		require.NoError(t, command.install(translations, "/bin/zsh", home))
		require.NoError(t, command.install(translations, "/bin/zsh", home))

		// Assert
		content, err := os.ReadFile(filepath.Join(home, ".zshrc"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(content), installMarker))
		assert.Contains(t, string(content), "commitintent completion zsh")
		assert.Contains(t, out.String(), "already installed")
	})

	t.Run("should reject an unknown shell", func(t *testing.T) {
		command := &CompletionCommand{out: &bytes.Buffer{}}

		err := command.install(newTranslations(t), "/usr/bin/fish", t.TempDir())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fish")
	})
}
