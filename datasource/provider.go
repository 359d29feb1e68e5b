package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"wellness-agents/models"
)

// Geocoder resolves a place name to coordinates.
//
// A false second result means the location could not be resolved. That is
// an expected outcome, so implementations report it instead of returning an
// error.
type Geocoder interface {
	// Geocode resolves a city and state to a coordinate
	Geocode(ctx context.Context, query models.LocationQuery) (models.Coordinate, bool)

	// Name returns the geocoder's name
	Name() string
}

// ForecastSource is an interface for services that can fetch pollen forecasts
type ForecastSource interface {
	// FetchForecast fetches a forecast for a coordinate for the specified number of days
	FetchForecast(ctx context.Context, coord models.Coordinate, days int) (models.PollenForecast, error)

	// Name returns the source's name
	Name() string
}

// Config represents the application configuration
type Config struct {
	Pollen struct {
		APIKey            string  `json:"apiKey"`
		BaseURL           string  `json:"baseURL"`
		RequestsPerSecond float64 `json:"requestsPerSecond"`
		Burst             int     `json:"burst"`
	} `json:"pollen"`

	Geocoder struct {
		BaseURL           string  `json:"baseURL"`
		UserAgent         string  `json:"userAgent"`
		RequestsPerSecond float64 `json:"requestsPerSecond"`
	} `json:"geocoder"`

	// How long geocoding results and forecasts are reused
	CacheTTL Duration `json:"cacheTTL"`

	// Model name used by the agents
	Model string `json:"model"`
	// Gemini API key; empty means the genai client picks credentials from the environment
	GoogleAPIKey string `json:"googleAPIKey"`

	// List of locations the service keeps a forecast for
	Locations []models.LocationQuery `json:"locations"`
}

// Duration is a time.Duration that reads "30m" style strings from JSON
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = parsed
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	d.Duration = time.Duration(secs * float64(time.Second))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// LoadConfig loads configuration from a JSON file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return config, nil
}

// LoadConfigWithEnv loads filename when it exists, falls back to
// DefaultConfig otherwise, and applies environment overrides.
func LoadConfigWithEnv(filename string) (*Config, error) {
	config, err := LoadConfig(filename)
	if errors.Is(err, os.ErrNotExist) {
		config = DefaultConfig()
	} else if err != nil {
		return nil, err
	}
	config.ApplyEnv()
	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Pollen.BaseURL = DefaultPollenBaseURL
	config.Pollen.RequestsPerSecond = 5
	config.Pollen.Burst = 5
	config.Geocoder.BaseURL = DefaultNominatimBaseURL
	config.Geocoder.UserAgent = DefaultUserAgent
	// Nominatim usage policy allows an absolute maximum of 1 request per second
	config.Geocoder.RequestsPerSecond = 1
	config.CacheTTL = Duration{30 * time.Minute}
	config.Model = "gemini-2.5-flash"
	config.Locations = []models.LocationQuery{
		{City: "Austin", State: "TX"},
		{City: "San Francisco", State: "CA"},
	}
	return config
}

// ApplyEnv overrides configuration values from environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("POLLEN_API_KEY"); v != "" {
		c.Pollen.APIKey = v
	}
	if v := os.Getenv("POLLEN_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Pollen.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("NOMINATIM_USER_AGENT"); v != "" {
		c.Geocoder.UserAgent = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPIKey = v
	}
}

// Validate reports configuration that cannot work
func (c *Config) Validate() error {
	if c.Pollen.APIKey == "" {
		return fmt.Errorf("pollen API key not configured (set POLLEN_API_KEY)")
	}
	if c.Geocoder.UserAgent == "" {
		return fmt.Errorf("geocoder user agent must not be empty")
	}
	return nil
}
