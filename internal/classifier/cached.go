package classifier

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/commitintent/internal/cache"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
	"github.com/thomas-vilte/commitintent/internal/ports"
)

// CachedClassifier answers repeated diffs from the on-disk cache. Only
// successful verdicts are stored.
type CachedClassifier struct {
	next  ports.IntentAnalyzer
	cache *cache.Cache
}

func NewCachedClassifier(next ports.IntentAnalyzer, c *cache.Cache) *CachedClassifier {
	return &CachedClassifier{next: next, cache: c}
}

func (c *CachedClassifier) Analyze(ctx context.Context, diff string, cfg config.Config) (string, error) {
	log := logger.FromContext(ctx)
	key := c.cache.GenerateHash(cfg.APIURL, diff)

	raw, found, err := c.cache.Get(key)
	if err != nil {
		log.Debug("cache read failed", "error", err)
	}
	if found {
		var cached models.AnalysisResult
		if err := json.Unmarshal(raw, &cached); err == nil && cached.Intent != "" {
			log.Debug("intent served from cache", "key", key[:12])
			return cached.Intent, nil
		}
	}

	intent, err := c.next.Analyze(ctx, diff, cfg)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(key, models.AnalysisResult{Intent: intent}); err != nil {
		log.Debug("cache write failed", "error", err)
	}
	return intent, nil
}
