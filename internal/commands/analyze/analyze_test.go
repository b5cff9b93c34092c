package analyze

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commitintent/internal/config"
	domainErrors "github.com/thomas-vilte/commitintent/internal/errors"
	"github.com/thomas-vilte/commitintent/internal/i18n"
	"github.com/thomas-vilte/commitintent/internal/ports"
	"github.com/thomas-vilte/commitintent/internal/services"
	"github.com/urfave/cli/v3"
)

func TestAnalyzeCommand(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		args       []string
		setupMocks func(git *services.MockDiffProvider, analyzer *services.MockIntentAnalyzer, clipboard *services.MockClipboard)
		wantErr    error
		wantOut    []string
	}{
		{
			name: "prints the detected intent",
			setupMocks: func(git *services.MockDiffProvider, analyzer *services.MockIntentAnalyzer, _ *services.MockClipboard) {
				git.On("IsRepository", mock.Anything, mock.Anything).Return(true)
				git.On("GetDiff", mock.Anything, mock.Anything).Return("-old\n+new", nil)
				analyzer.On("Analyze", mock.Anything, "-old\n+new", mock.Anything).
					Return("Intent: Bugfix\nMessage: fix off-by-one", nil)
			},
			wantOut: []string{"Intent detected!", "Bugfix: fix off-by-one"},
		},
		{
			name: "copies the intent with --copy",
			args: []string{"--copy"},
			setupMocks: func(git *services.MockDiffProvider, analyzer *services.MockIntentAnalyzer, clipboard *services.MockClipboard) {
				git.On("IsRepository", mock.Anything, mock.Anything).Return(true)
				git.On("GetDiff", mock.Anything, mock.Anything).Return("+x", nil)
				analyzer.On("Analyze", mock.Anything, "+x", mock.Anything).Return("Refactor", nil)
				clipboard.On("SetText", "Intent: Refactor").Return(nil)
			},
			wantOut: []string{"Intent: Refactor", "Copied to clipboard"},
		},
		{
			name: "reports a file without changes",
			setupMocks: func(git *services.MockDiffProvider, _ *services.MockIntentAnalyzer, _ *services.MockClipboard) {
				git.On("IsRepository", mock.Anything, mock.Anything).Return(true)
				git.On("GetDiff", mock.Anything, mock.Anything).Return("", nil)
			},
			wantOut: []string{"No changes to analyze"},
		},
		{
			name: "fails when the classifier fails",
			setupMocks: func(git *services.MockDiffProvider, analyzer *services.MockIntentAnalyzer, _ *services.MockClipboard) {
				git.On("IsRepository", mock.Anything, mock.Anything).Return(true)
				git.On("GetDiff", mock.Anything, mock.Anything).Return("+x", nil)
				analyzer.On("Analyze", mock.Anything, "+x", mock.Anything).
					Return("", domainErrors.ErrAPIStatus.WithContext("status", 503))
			},
			wantErr: domainErrors.ErrAPIStatus,
			wantOut: []string{"Failed to detect commit intent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			file := filepath.Join(t.TempDir(), "main.go")
			require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0644))

			git := new(services.MockDiffProvider)
			analyzer := new(services.MockIntentAnalyzer)
			clipboard := new(services.MockClipboard)
			tt.setupMocks(git, analyzer, clipboard)

			out := &bytes.Buffer{}
			factory := &AnalyzeCommandFactory{
				out:       out,
				git:       git,
				clipboard: clipboard,
				analyzer: func(context.Context, config.Config) ports.IntentAnalyzer {
					return analyzer
				},
			}
			translations, err := i18n.NewTranslations("en", "")
			require.NoError(t, err)
			app := &cli.Command{
				Name:     "commitintent",
				Commands: []*cli.Command{factory.CreateCommand(translations, config.Default())},
			}
			args := append([]string{"commitintent", "analyze"}, tt.args...)

			// Act
			err = app.Run(context.Background(), append(args, file))

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			git.AssertExpectations(t)
			analyzer.AssertExpectations(t)
			clipboard.AssertExpectations(t)
		})
	}

	t.Run("should require a file argument", func(t *testing.T) {
		out := &bytes.Buffer{}
		factory := &AnalyzeCommandFactory{out: out}
		translations, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)
		app := &cli.Command{
			Name:     "commitintent",
			Commands: []*cli.Command{factory.CreateCommand(translations, config.Default())},
		}

		err = app.Run(context.Background(), []string{"commitintent", "analyze"})

		require.Error(t, err)
		assert.Contains(t, out.String(), "Specify the file to analyze")
	})
}
