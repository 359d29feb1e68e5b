package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/forecast"
	"wellness-agents/models"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pollen-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	city := fs.String("city", "", "City name")
	state := fs.String("state", "", "State abbreviation, e.g. TX")
	days := fs.Int("days", forecast.DefaultDays, "Number of forecast days (1-5)")
	configFile := fs.String("config", "config.json", "Path to configuration file")
	verbose := fs.Bool("v", false, "Log service calls to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *city == "" {
		fmt.Fprintln(stderr, "usage: pollen-cli -city Austin -state TX [-days 3]")
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
			return 1
		}
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	config, err := datasource.LoadConfigWithEnv(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	services := forecast.NewServices(config, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := models.LocationQuery{City: *city, State: *state}
	fc, err := services.Fetcher.Fetch(ctx, query, *days)
	if err != nil {
		logger.Debug("fetch failed", zap.Error(err))
		fmt.Fprintln(stderr, "could not retrieve forecast for the requested location")
		return 1
	}

	if err := forecast.Render(stdout, fc); err != nil {
		fmt.Fprintf(stderr, "Failed to write forecast: %v\n", err)
		return 1
	}
	return 0
}
