package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wellness-agents/forecast"
	"wellness-agents/models"
)

// Fetcher is the part of forecast.Fetcher the collector needs
type Fetcher interface {
	FetchResult(ctx context.Context, query models.LocationQuery, days int) (forecast.Result, error)
}

// PollenCollector periodically fetches pollen forecasts for a fixed set of locations
type PollenCollector struct {
	fetcher      Fetcher
	outputChan   chan models.ForecastRecord
	errorChan    chan error
	locations    []models.LocationQuery
	days         int
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewPollenCollector creates a new collector for the provided locations
func NewPollenCollector(fetcher Fetcher, locations []models.LocationQuery, logger *zap.Logger) *PollenCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PollenCollector{
		fetcher:      fetcher,
		outputChan:   make(chan models.ForecastRecord, 100), // Buffer size can be configured
		errorChan:    make(chan error, 100),                 // Buffer for errors
		locations:    locations,
		days:         forecast.DefaultDays,
		interval:     30 * time.Minute,
		fetchTimeout: 20 * time.Second, // geocode + forecast
		logger:       logger,
	}
}

// SetFetchTimeout changes the timeout for a single geocode and forecast round trip
func (pc *PollenCollector) SetFetchTimeout(timeout time.Duration) {
	pc.fetchTimeout = timeout
}

// SetInterval changes how often each location is refreshed.
// Non-positive intervals are ignored and the current interval is kept.
func (pc *PollenCollector) SetInterval(interval time.Duration) {
	if interval <= 0 {
		pc.logger.Warn("ignoring non-positive collector interval", zap.Duration("interval", interval))
		return
	}
	pc.interval = interval
}

// SetDays changes the number of forecast days requested
func (pc *PollenCollector) SetDays(days int) {
	pc.days = days
}

// OutputChannel returns the channel that emits collected forecasts
func (pc *PollenCollector) OutputChannel() <-chan models.ForecastRecord {
	return pc.outputChan
}

// ErrorChannel returns the channel that emits errors
func (pc *PollenCollector) ErrorChannel() <-chan error {
	return pc.errorChan
}

// Start begins collecting forecasts for all locations.
// The returned function can be called to stop collection. Both channels are
// closed once every location goroutine has exited.
func (pc *PollenCollector) Start(ctx context.Context) func() {
	// Create a new context that we can cancel
	collectionCtx, cancelCollection := context.WithCancel(ctx)

	var wg sync.WaitGroup

	// One goroutine per location
	for _, location := range pc.locations {
		wg.Add(1)
		go pc.collectLocation(collectionCtx, &wg, location)
	}

	// Start a goroutine that will close channels when all collectors are done
	go func() {
		wg.Wait()
		close(pc.outputChan)
		close(pc.errorChan)
	}()

	// Return a function that will stop all collection when called
	return func() {
		cancelCollection()
		// Wait for everything to clean up
		wg.Wait()
	}
}

// collectLocation continuously collects forecasts for a single location
func (pc *PollenCollector) collectLocation(ctx context.Context, wg *sync.WaitGroup, location models.LocationQuery) {
	defer wg.Done()

	ticker := time.NewTicker(pc.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	pc.fetchOnce(ctx, location)

	// Then fetch on the ticker schedule
	for {
		select {
		case <-ticker.C:
			pc.fetchOnce(ctx, location)
		case <-ctx.Done():
			return
		}
	}
}

// fetchOnce performs a single fetch for a location
func (pc *PollenCollector) fetchOnce(ctx context.Context, location models.LocationQuery) {
	// Create a context with timeout for this specific request
	fetchCtx, cancel := context.WithTimeout(ctx, pc.fetchTimeout)
	defer cancel()

	res, err := pc.fetcher.FetchResult(fetchCtx, location, pc.days)
	if err != nil {
		select {
		case pc.errorChan <- fmt.Errorf("error fetching pollen forecast for %s: %w", location, err):
		default:
			pc.logger.Warn("collector error channel full, dropping error",
				zap.Stringer("location", location), zap.Error(err))
		}
		return
	}

	record := models.ForecastRecord{
		Location:   location,
		Coordinate: res.Coordinate,
		Days:       res.Days,
		Forecast:   res.Forecast,
		Updated:    time.Now(),
	}

	// Send the record to the output channel
	select {
	case pc.outputChan <- record:
	case <-ctx.Done():
		return
	}
}
