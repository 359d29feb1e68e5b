package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"wellness-agents/models"
)

const (
	// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim instance
	DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies this application to Nominatim, which
	// rejects requests without a custom User-Agent
	DefaultUserAgent = "HealthAndWellnessAgent/1.0"
)

// NominatimGeocoder implements Geocoder using the Nominatim search API
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNominatimGeocoder creates a new Nominatim geocoder
func NewNominatimGeocoder(userAgent string, logger *zap.Logger) *NominatimGeocoder {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimGeocoder{
		baseURL:   DefaultNominatimBaseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SetBaseURL points the geocoder at a different Nominatim instance
func (g *NominatimGeocoder) SetBaseURL(baseURL string) {
	g.baseURL = strings.TrimRight(baseURL, "/")
}

// SetHTTPClient replaces the HTTP client used for lookups
func (g *NominatimGeocoder) SetHTTPClient(client *http.Client) {
	g.httpClient = client
}

// Name returns the geocoder name
func (g *NominatimGeocoder) Name() string {
	return "Nominatim"
}

// Geocode resolves a city and state to the first matching coordinate.
// Any failure is logged and reported as not found.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query models.LocationQuery) (models.Coordinate, bool) {
	log := g.logger.With(zap.String("city", query.City), zap.String("state", query.State))

	if strings.TrimSpace(query.City) == "" {
		log.Warn("geocode skipped: empty city")
		return models.Coordinate{}, false
	}

	coord, found, err := g.lookup(ctx, query)
	if err != nil {
		log.Warn("an error occurred while making the geocoding request", zap.Error(err))
		return models.Coordinate{}, false
	}
	if !found {
		log.Info("could not find coordinates")
		return models.Coordinate{}, false
	}

	log.Debug("found coordinates",
		zap.Float64("latitude", coord.Latitude),
		zap.Float64("longitude", coord.Longitude))
	return coord, true
}

func (g *NominatimGeocoder) lookup(ctx context.Context, query models.LocationQuery) (models.Coordinate, bool, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/search", g.baseURL)
	params := url.Values{}
	params.Add("city", query.City)
	params.Add("state", query.State)
	params.Add("format", "json")
	params.Add("limit", "1")

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	// Execute request
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Coordinate{}, false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Nominatim returns coordinates as decimal strings
	var places []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &places); err != nil {
		return models.Coordinate{}, false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(places) == 0 {
		return models.Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("%w: latitude %q", ErrMalformedResponse, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("%w: longitude %q", ErrMalformedResponse, places[0].Lon)
	}

	return models.Coordinate{Latitude: lat, Longitude: lon}, true, nil
}

var _ Geocoder = (*NominatimGeocoder)(nil)
