package ports

import (
	"context"

	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/models"
)

// SaveEventSource delivers file-save notifications. The returned func
// unsubscribes the handler.
type SaveEventSource interface {
	Subscribe(handler func(models.SaveEvent)) (unsubscribe func())
}

// RepositoryProbe answers whether a file lives in a version-controlled tree.
type RepositoryProbe interface {
	IsRepository(ctx context.Context, path string) bool
}

// DiffProvider returns the working-tree diff of one file. An empty string with
// a nil error means there is nothing to send.
type DiffProvider interface {
	RepositoryProbe
	GetDiff(ctx context.Context, path string) (string, error)
}

// IntentAnalyzer classifies a diff and returns the raw intent text.
type IntentAnalyzer interface {
	Analyze(ctx context.Context, diff string, cfg config.Config) (string, error)
}
