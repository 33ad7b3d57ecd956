package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sentiment-rest-api/internal/cache"
	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/pkg/hashutil"

	"github.com/rs/zerolog/log"
)

// CachedClassifier memoizes another Classifier. Cache keys are SHA-256
// fingerprints of the text, so the cache never holds raw input.
type CachedClassifier struct {
	next  Classifier
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClassifier wraps next with cache c.
func NewCachedClassifier(next Classifier, c cache.Cache, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{next: next, cache: c, ttl: ttl}
}

// Name implements Classifier.
func (c *CachedClassifier) Name() string {
	return c.next.Name()
}

// Classify implements Classifier. Cache failures fall through to the model.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	key := c.next.Name() + ":" + hashutil.SHA256Hex(text)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var hit model.Classification
		if err := json.Unmarshal(raw, &hit); err == nil {
			return hit, nil
		}
		log.Warn().Err(err).Msg("prediction_cache_entry_corrupt")
		if err := c.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Msg("prediction_cache_delete_failed")
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Msg("prediction_cache_get_failed")
	}

	result, err := c.next.Classify(ctx, text)
	if err != nil {
		return model.Classification{}, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			log.Warn().Err(err).Msg("prediction_cache_set_failed")
		}
	}
	return result, nil
}

var _ Classifier = (*CachedClassifier)(nil)
