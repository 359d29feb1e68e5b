package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

// CachedForecastSource reuses forecasts per coordinate and day count.
// Failed fetches are not cached.
type CachedForecastSource struct {
	source datasource.ForecastSource
	store  *ttlStore[models.PollenForecast]
	logger *zap.Logger
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, cacheDuration time.Duration, logger *zap.Logger) *CachedForecastSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedForecastSource{
		source: source,
		store:  newTTLStore[models.PollenForecast](cacheDuration),
		logger: logger,
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchForecast returns a cached forecast when one is fresh, otherwise asks the source
func (c *CachedForecastSource) FetchForecast(ctx context.Context, coord models.Coordinate, days int) (models.PollenForecast, error) {
	key := fmt.Sprintf("%s:%d", coord, days)

	if fc, age, ok := c.store.get(key); ok {
		c.logger.Debug("forecast cache hit",
			zap.Stringer("coordinate", coord),
			zap.Int("days", days),
			zap.Duration("age", age.Round(time.Second)))
		return fc, nil
	}

	c.logger.Debug("forecast cache miss",
		zap.Stringer("coordinate", coord),
		zap.Int("days", days),
		zap.String("source", c.source.Name()))

	fc, err := c.source.FetchForecast(ctx, coord, days)
	if err != nil {
		return models.PollenForecast{}, err
	}
	c.store.put(key, fc)
	return fc, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() (hits, misses int) {
	return c.store.stats()
}

var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
