package classifier

import (
	"context"

	"github.com/thomas-vilte/commitintent/internal/cache"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/ports"
)

// NewFromConfig returns the HTTP client, wrapped with the response cache when
// cache_ttl_minutes is positive. A cache that cannot be opened is skipped.
func NewFromConfig(ctx context.Context, cfg config.Config, opts ...Option) ports.IntentAnalyzer {
	client := NewClient(opts...)
	if cfg.CacheTTLMinutes <= 0 {
		return client
	}

	store, err := cache.NewCache(cfg.CacheTTL())
	if err != nil {
		logger.Warn(ctx, "response cache disabled", "error", err)
		return client
	}
	logger.Debug(ctx, "response cache enabled", "dir", store.Dir(), "entries", store.Count())
	return NewCachedClassifier(client, store)
}
