package forecast

import (
	"go.uber.org/zap"

	"wellness-agents/cache"
	"wellness-agents/datasource"
)

// Services is the decorated geocoder and forecast source behind a Fetcher
type Services struct {
	Geocoder *cache.CachedGeocoder
	Source   *cache.CachedForecastSource
	Fetcher  *Fetcher
}

// NewServices wires the external services from configuration.
// Each client is rate limited first and cached on top, so cache hits never
// wait on the limiter.
func NewServices(cfg *datasource.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}

	nominatim := datasource.NewNominatimGeocoder(cfg.Geocoder.UserAgent, logger)
	if cfg.Geocoder.BaseURL != "" {
		nominatim.SetBaseURL(cfg.Geocoder.BaseURL)
	}
	pollen := datasource.NewGooglePollenProvider(cfg.Pollen.APIKey, logger)
	if cfg.Pollen.BaseURL != "" {
		pollen.SetBaseURL(cfg.Pollen.BaseURL)
	}

	var geocoder datasource.Geocoder = nominatim
	if cfg.Geocoder.RequestsPerSecond > 0 {
		geocoder = datasource.NewRateLimitedGeocoder(nominatim, cfg.Geocoder.RequestsPerSecond, 1, logger)
	}
	var source datasource.ForecastSource = pollen
	if cfg.Pollen.RequestsPerSecond > 0 {
		burst := cfg.Pollen.Burst
		if burst < 1 {
			burst = 1
		}
		source = datasource.NewRateLimitedForecastSource(pollen, cfg.Pollen.RequestsPerSecond, burst)
	}

	cachedGeocoder := cache.NewCachedGeocoder(geocoder, cfg.CacheTTL.Duration, logger)
	cachedSource := cache.NewCachedForecastSource(source, cfg.CacheTTL.Duration, logger)

	return &Services{
		Geocoder: cachedGeocoder,
		Source:   cachedSource,
		Fetcher:  NewFetcher(cachedGeocoder, cachedSource, logger),
	}
}
