package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

// CachedGeocoder wraps a Geocoder and caches successful lookups.
// Not-found results are never cached so a transient failure is retried on
// the next call.
type CachedGeocoder struct {
	geocoder datasource.Geocoder
	store    *ttlStore[models.Coordinate]
	logger   *zap.Logger
}

// NewCachedGeocoder creates a new cached wrapper around a geocoder
func NewCachedGeocoder(geocoder datasource.Geocoder, cacheDuration time.Duration, logger *zap.Logger) *CachedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGeocoder{
		geocoder: geocoder,
		store:    newTTLStore[models.Coordinate](cacheDuration),
		logger:   logger,
	}
}

// Name returns the name of the underlying geocoder with [Cached] suffix
func (c *CachedGeocoder) Name() string {
	return c.geocoder.Name() + " [Cached]"
}

// Geocode resolves a location, using cache when available.
// Spelling variants differing only in case or surrounding spaces share an entry.
func (c *CachedGeocoder) Geocode(ctx context.Context, query models.LocationQuery) (models.Coordinate, bool) {
	key := query.Key()

	if coord, age, ok := c.store.get(key); ok {
		c.logger.Debug("geocode cache hit",
			zap.Stringer("location", query),
			zap.Duration("age", age.Round(time.Second)))
		return coord, true
	}

	c.logger.Debug("geocode cache miss", zap.Stringer("location", query), zap.String("geocoder", c.geocoder.Name()))

	coord, ok := c.geocoder.Geocode(ctx, query)
	if !ok {
		return models.Coordinate{}, false
	}
	c.store.put(key, coord)
	return coord, true
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() (hits, misses int) {
	return c.store.stats()
}

var _ datasource.Geocoder = (*CachedGeocoder)(nil)
