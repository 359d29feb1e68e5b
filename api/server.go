package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/forecast"
	"wellness-agents/models"
)

// Fetcher is the part of forecast.Fetcher the server needs
type Fetcher interface {
	FetchResult(ctx context.Context, query models.LocationQuery, days int) (forecast.Result, error)
}

// Server represents the API server
type Server struct {
	forecastStore *ForecastStore
	fetcher       Fetcher
	geocoder      datasource.Geocoder
	router        *mux.Router
	handler       http.Handler
	server        *http.Server
	logger        *zap.Logger
}

// NewServer creates a new API server
func NewServer(forecastStore *ForecastStore, fetcher Fetcher, geocoder datasource.Geocoder, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := mux.NewRouter()

	server := &Server{
		forecastStore: forecastStore,
		fetcher:       fetcher,
		geocoder:      geocoder,
		router:        r,
		logger:        logger,
	}

	// Wrapped outside the router so unmatched routes (404/405) get a request ID too
	server.handler = RequestID(server.logRequests(r))
	server.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	api := r.PathPrefix("/api").Subrouter()

	// Pollen forecasts
	api.HandleFunc("/pollen/locations", server.handleGetAllLocations).Methods(http.MethodGet)
	api.HandleFunc("/pollen/{state}/{city}", server.handleGetForecast).Methods(http.MethodGet)

	// Geocoding
	api.HandleFunc("/geocode/{state}/{city}", server.handleGeocode).Methods(http.MethodGet)

	// Health check
	api.HandleFunc("/health", server.handleHealthCheck).Methods(http.MethodGet)

	return server
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the API server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleGetForecast returns the pollen forecast for a location, fetching it on demand when not stored
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	location := models.LocationQuery{City: vars["city"], State: vars["state"]}

	// Extract days parameter from query string
	days := forecast.DefaultDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		d, err := strconv.Atoi(daysStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("invalid days parameter: %q", daysStr),
			})
			return
		}
		days = d
	}
	days = forecast.ClampDays(days)

	if record, exists := s.forecastStore.GetForecast(location, days); exists {
		writeJSON(w, http.StatusOK, forecastResponse(record, days, ""))
		return
	}

	// This is an on-demand fetch for this location
	res, err := s.fetcher.FetchResult(r.Context(), location, days)
	if err != nil {
		var svcErr *datasource.ForecastServiceError
		switch {
		case errors.Is(err, datasource.ErrLocationNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("could not retrieve forecast for the requested location: %s", location),
			})
		case errors.As(err, &svcErr):
			s.logger.Warn("forecast service error",
				zap.Stringer("location", location),
				zap.Int("status", svcErr.StatusCode))
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":          "forecast service error",
				"upstreamStatus": svcErr.StatusCode,
			})
		default:
			s.logger.Error("failed to fetch forecast", zap.Stringer("location", location), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": fmt.Sprintf("Failed to fetch forecast: %v", err),
			})
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

	// Store the forecast for future use
	s.forecastStore.UpdateForecast(record)

	writeJSON(w, http.StatusOK, forecastResponse(record, days, "On-demand forecast fetch"))
}

// forecastResponse renders a record limited to the requested number of days.
// A stored record may cover more days than asked for.
func forecastResponse(record models.ForecastRecord, days int, note string) map[string]any {
	if days > record.Days {
		days = record.Days
	}
	response := map[string]any{
		"location":   record.Location,
		"coordinate": record.Coordinate,
		"days":       days,
		"data":       trimDailyInfo(record.Forecast, days),
		"updated":    record.Updated,
		"timestamp":  time.Now(),
	}
	if note != "" {
		response["note"] = note
	}
	return response
}

// trimDailyInfo returns the forecast payload with at most days daily entries.
// Other fields of the service's payload are passed through unchanged.
func trimDailyInfo(fc models.PollenForecast, days int) any {
	payload, err := fc.Map()
	if err != nil || len(fc.Raw) == 0 {
		if len(fc.DailyInfo) > days {
			fc.DailyInfo = fc.DailyInfo[:days]
		}
		return fc
	}
	if daily, ok := payload["dailyInfo"].([]any); ok && len(daily) > days {
		payload["dailyInfo"] = daily[:days]
	}
	return payload
}

// handleGeocode resolves a location to coordinates
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	location := models.LocationQuery{City: vars["city"], State: vars["state"]}

	coord, ok := s.geocoder.Geocode(r.Context(), location)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("No coordinates found for location: %s", location),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location":   location,
		"coordinate": coord,
	})
}

// handleGetAllLocations returns a list of all locations with forecast data
func (s *Server) handleGetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations := s.forecastStore.GetAllForecastLocations()

	writeJSON(w, http.StatusOK, map[string]any{
		"locations": locations,
		"count":     len(locations),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
