package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellness-agents/api"
	"wellness-agents/collector"
	"wellness-agents/datasource"
	"wellness-agents/forecast"
)

func main() {
	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	updateInterval := flag.Duration("update", 30*time.Minute, "Pollen forecast update interval")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	pruneAge := flag.Duration("prune-age", 48*time.Hour, "Remove stored forecasts older than this")
	debug := flag.Bool("debug", false, "Enable development logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()

	if *updateInterval <= 0 {
		logger.Fatal("update interval must be positive", zap.Duration("update", *updateInterval))
	}

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	config, err := datasource.LoadConfigWithEnv(*configFile)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	services := forecast.NewServices(config, logger)

	// Create in-memory store for forecast data
	forecastStore := api.NewForecastStore()
	forecastStore.SetMaxAge(config.CacheTTL.Duration)

	// Create API server
	server := api.NewServer(forecastStore, services.Fetcher, services.Geocoder, *port, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Keep the configured locations fresh in the background
	pc := collector.NewPollenCollector(services.Fetcher, config.Locations, logger)
	pc.SetInterval(*updateInterval)
	stopCollector := pc.Start(ctx)
	done := make(chan struct{})
	go drainCollector(pc, forecastStore, logger, done)

	// Periodically clean up old forecasts
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := forecastStore.PruneOldForecasts(*pruneAge); n > 0 {
					logger.Info("pruned old forecasts", zap.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}

	stopCollector()
	<-done

	gh, gm := services.Geocoder.CacheStats()
	fh, fm := services.Source.CacheStats()
	logger.Info("shutdown complete",
		zap.Int("geocode_cache_hits", gh), zap.Int("geocode_cache_misses", gm),
		zap.Int("forecast_cache_hits", fh), zap.Int("forecast_cache_misses", fm))
}

// drainCollector moves collected forecasts into the store until the collector closes its channels
func drainCollector(pc *collector.PollenCollector, store *api.ForecastStore, logger *zap.Logger, done chan<- struct{}) {
	defer close(done)

	output, errs := pc.OutputChannel(), pc.ErrorChannel()
	for output != nil || errs != nil {
		select {
		case record, ok := <-output:
			if !ok {
				output = nil
				continue
			}
			store.UpdateForecast(record)
			logger.Info("updated pollen forecast",
				zap.Stringer("location", record.Location),
				zap.Int("days", record.Days))
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("collector error", zap.Error(err))
		}
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
