package datasource

import (
	"context"
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

// DefaultPollenBaseURL is the Google Pollen API endpoint root
const DefaultPollenBaseURL = "https://pollen.googleapis.com/v1"

// GooglePollenProvider implements ForecastSource using the Google Pollen API
type GooglePollenProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGooglePollenProvider creates a new Google Pollen provider
func NewGooglePollenProvider(apiKey string, logger *zap.Logger) *GooglePollenProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GooglePollenProvider{
		apiKey:  apiKey,
		baseURL: DefaultPollenBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SetBaseURL points the provider at a different API root
func (p *GooglePollenProvider) SetBaseURL(baseURL string) {
	p.baseURL = strings.TrimRight(baseURL, "/")
}

// SetHTTPClient replaces the HTTP client used for forecast requests
func (p *GooglePollenProvider) SetHTTPClient(client *http.Client) {
	p.httpClient = client
}

// Name returns the provider name
func (p *GooglePollenProvider) Name() string {
	return "GooglePollen"
}

// FetchForecast fetches the pollen forecast for a coordinate. days is sent
// as given; callers clamp it to the supported range.
func (p *GooglePollenProvider) FetchForecast(ctx context.Context, coord models.Coordinate, days int) (models.PollenForecast, error) {
	// Build URL
	endpoint := fmt.Sprintf("%s/forecast:lookup", p.baseURL)
	params := url.Values{}
	params.Add("key", p.apiKey)
	params.Add("location.latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Add("location.longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Add("days", strconv.Itoa(days))

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.PollenForecast{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.PollenForecast{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PollenForecast{}, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Warn("pollen forecast request failed",
			zap.Int("status", resp.StatusCode),
			zap.Stringer("coordinate", coord))
		return models.PollenForecast{}, &ForecastServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	forecast, err := models.ParsePollenForecast(body)
	if err != nil {
		return models.PollenForecast{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	p.logger.Debug("fetched pollen forecast",
		zap.Stringer("coordinate", coord),
		zap.Int("days", days),
		zap.String("region", forecast.RegionCode),
		zap.Int("records", len(forecast.DailyInfo)))

	return forecast, nil
}

var _ ForecastSource = (*GooglePollenProvider)(nil)
