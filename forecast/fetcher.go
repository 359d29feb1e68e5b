// Package forecast resolves a named location and retrieves its pollen
// forecast.
package forecast

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

const (
	// DefaultDays is the number of days requested when the caller has no preference
	DefaultDays = 5
	// MaxDays is the longest forecast the pollen service supports
	MaxDays = 5
	// MinDays is the shortest forecast the pollen service supports
	MinDays = 1
)

// ClampDays limits days to the range the forecast service accepts.
// Values above MaxDays become MaxDays. Values below MinDays become MinDays;
// the service rejects them, so sending them would only produce an API error.
func ClampDays(days int) int {
	if days > MaxDays {
		return MaxDays
	}
	if days < MinDays {
		return MinDays
	}
	return days
}

// Result is a fetched forecast together with the resolved request
type Result struct {
	Location   models.LocationQuery
	Coordinate models.Coordinate
	Days       int
	Forecast   models.PollenForecast
}

// Fetcher geocodes a location and fetches its pollen forecast.
// It holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	geocoder datasource.Geocoder
	source   datasource.ForecastSource
	logger   *zap.Logger
}

// NewFetcher creates a fetcher from a geocoder and a forecast source
func NewFetcher(geocoder datasource.Geocoder, source datasource.ForecastSource, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		geocoder: geocoder,
		source:   source,
		logger:   logger,
	}
}

// Fetch resolves the location and returns its forecast payload unchanged.
//
// An unresolvable location returns an error wrapping
// datasource.ErrLocationNotFound without contacting the forecast service.
// A non-2xx forecast response returns a *datasource.ForecastServiceError.
func (f *Fetcher) Fetch(ctx context.Context, query models.LocationQuery, days int) (models.PollenForecast, error) {
	res, err := f.FetchResult(ctx, query, days)
	if err != nil {
		return models.PollenForecast{}, err
	}
	return res.Forecast, nil
}

// FetchResult is Fetch but also reports the resolved coordinate and days
func (f *Fetcher) FetchResult(ctx context.Context, query models.LocationQuery, days int) (Result, error) {
	log := f.logger.With(zap.Stringer("location", query))

	log.Debug("fetching location data")
	coord, ok := f.geocoder.Geocode(ctx, query)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", datasource.ErrLocationNotFound, query)
	}
	log.Debug("fetched location",
		zap.Float64("latitude", coord.Latitude),
		zap.Float64("longitude", coord.Longitude))

	clamped := ClampDays(days)
	if clamped != days {
		log.Debug("clamped forecast days", zap.Int("requested", days), zap.Int("days", clamped))
	}

	forecast, err := f.source.FetchForecast(ctx, coord, clamped)
	if err != nil {
		return Result{}, fmt.Errorf("fetch forecast for %s: %w", query, err)
	}

	return Result{
		Location:   query,
		Coordinate: coord,
		Days:       clamped,
		Forecast:   forecast,
	}, nil
}
