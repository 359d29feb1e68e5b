package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wellness-agents/models"
)

// RateLimitedGeocoder wraps a Geocoder with rate limiting.
//
// A canceled wait is reported as not found, the same as any other lookup
// failure.
type RateLimitedGeocoder struct {
	geocoder Geocoder
	limiter  *rate.Limiter
	name     string
	logger   *zap.Logger
}

// NewRateLimitedGeocoder allows at most rps lookups per second, in bursts of
// up to burst. Nominatim's usage policy calls for rps=1, burst=1.
func NewRateLimitedGeocoder(geocoder Geocoder, rps float64, burst int, logger *zap.Logger) *RateLimitedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitedGeocoder{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", geocoder.Name()),
		logger:   logger,
	}
}

// Geocode resolves a location, respecting rate limits
func (r *RateLimitedGeocoder) Geocode(ctx context.Context, query models.LocationQuery) (models.Coordinate, bool) {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("rate limit wait canceled",
			zap.String("geocoder", r.name),
			zap.Stringer("location", query),
			zap.Error(err))
		return models.Coordinate{}, false
	}

	return r.geocoder.Geocode(ctx, query)
}

func (r *RateLimitedGeocoder) Name() string {
	return r.name
}

// RateLimitedForecastSource spaces out calls to a ForecastSource.
// A canceled wait is returned as an error without calling the source.
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource allows rps calls per second with the given burst
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchForecast waits for a token and then fetches
func (r *RateLimitedForecastSource) FetchForecast(ctx context.Context, coord models.Coordinate, days int) (models.PollenForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.PollenForecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	return r.source.FetchForecast(ctx, coord, days)
}

func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

var (
	_ Geocoder       = (*RateLimitedGeocoder)(nil)
	_ ForecastSource = (*RateLimitedForecastSource)(nil)
)
