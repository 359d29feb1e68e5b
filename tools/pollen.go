// Package tools holds the function tools the agents expose to the model.
package tools

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"wellness-agents/datasource"
	"wellness-agents/forecast"
	"wellness-agents/models"
)

// PollenFetcher fetches a pollen forecast for a named location
type PollenFetcher interface {
	Fetch(ctx context.Context, query models.LocationQuery, days int) (models.PollenForecast, error)
}

// PollenArgs are the arguments of get_pollen_data
type PollenArgs struct {
	City  string `json:"city" jsonschema:"the name of the city"`
	State string `json:"state" jsonschema:"the two-letter state abbreviation, e.g. TX"`
	Days  int    `json:"days,omitempty" jsonschema:"number of forecast days, at most 5"`
}

// PollenResult is the result of get_pollen_data
type PollenResult struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Forecast map[string]any `json:"forecast,omitempty"`
}

// NewPollenTool creates the get_pollen_data tool. The API key is held by
// the fetcher, never passed by the model.
func NewPollenTool(fetcher PollenFetcher, logger *zap.Logger) (tool.Tool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return functiontool.New(functiontool.Config{
		Name:        "get_pollen_data",
		Description: "Fetch the pollen forecast for a given city and state for up to 5 days.",
	}, func(ctx tool.Context, args PollenArgs) (PollenResult, error) {
		return GetPollenData(ctx, fetcher, args, logger)
	})
}

// GetPollenData fetches a forecast and returns the service payload.
// An unknown location is a normal result with status "not_found"; any other
// failure is returned as an error.
func GetPollenData(ctx context.Context, fetcher PollenFetcher, args PollenArgs, logger *zap.Logger) (PollenResult, error) {
	days := args.Days
	if days == 0 {
		days = forecast.DefaultDays
	}
	query := models.LocationQuery{City: args.City, State: args.State}

	fc, err := fetcher.Fetch(ctx, query, days)
	if errors.Is(err, datasource.ErrLocationNotFound) {
		return PollenResult{
			Status:  "not_found",
			Message: fmt.Sprintf("could not retrieve forecast for the requested location: %s", query),
		}, nil
	}
	if err != nil {
		logger.Warn("get_pollen_data failed", zap.Stringer("location", query), zap.Error(err))
		return PollenResult{}, fmt.Errorf("could not retrieve forecast for %s: %w", query, err)
	}

	payload, err := fc.Map()
	if err != nil {
		return PollenResult{}, fmt.Errorf("decode forecast for %s: %w", query, err)
	}

	return PollenResult{Status: "success", Forecast: payload}, nil
}
