package resultcache

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/db"
	"github.com/civicpulse/insight/internal/domain"
)

// TextCache memoizes derived strings (discussion summaries) keyed by a
// fingerprint of the raw input. Store failures are treated as misses.
type TextCache struct {
	store      store
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewTextCache creates a text cache under the given key namespace,
// e.g. "summary_cache:". cacheTotal has label "result" ("hit"/"miss").
func NewTextCache(
	s store,
	namespace string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *TextCache {
	return &TextCache{
		store:      s,
		prefix:     domain.KeyPrefix + namespace,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached string derived from input, if present.
func (c *TextCache) Get(ctx context.Context, input string) (string, bool) {
	data, err := c.store.Get(ctx, c.prefix+Fingerprint(input))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached text", zap.String("prefix", c.prefix), zap.Error(err))
		}
		c.incCache("miss")
		return "", false
	}
	if len(data) == 0 {
		c.incCache("miss")
		return "", false
	}
	c.incCache("hit")
	return string(data), true
}

// Put stores a derived string. Failures are logged, not surfaced.
func (c *TextCache) Put(ctx context.Context, input, value string) {
	if err := c.store.Set(ctx, c.prefix+Fingerprint(input), []byte(value)); err != nil {
		c.logger.Warn("Failed to cache text", zap.String("prefix", c.prefix), zap.Error(err))
	}
}

func (c *TextCache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
