package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"wellness-agents/models"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"pollen": {"apiKey": "file-key", "requestsPerSecond": 2},
		"cacheTTL": "10m",
		"locations": [{"city": "San Jose", "state": "CA"}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Pollen.APIKey != "file-key" {
		t.Errorf("Pollen.APIKey = %q, want file-key", cfg.Pollen.APIKey)
	}
	if cfg.Pollen.RequestsPerSecond != 2 {
		t.Errorf("Pollen.RequestsPerSecond = %v, want 2", cfg.Pollen.RequestsPerSecond)
	}
	// Unset fields keep their defaults
	if cfg.Pollen.BaseURL != DefaultPollenBaseURL {
		t.Errorf("Pollen.BaseURL = %q, want default", cfg.Pollen.BaseURL)
	}
	if cfg.Geocoder.UserAgent != DefaultUserAgent {
		t.Errorf("Geocoder.UserAgent = %q, want default", cfg.Geocoder.UserAgent)
	}
	if cfg.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL.Duration)
	}
	want := []models.LocationQuery{{City: "San Jose", State: "CA"}}
	if diff := cmp.Diff(want, cfg.Locations); diff != "" {
		t.Errorf("Locations mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("LoadConfig() error = nil for a missing file")
	}
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("POLLEN_API_KEY", "env-key")
	t.Setenv("MODEL", "gemini-2.0-flash")
	t.Setenv("NOMINATIM_USER_AGENT", "EnvAgent/1.0")
	t.Setenv("POLLEN_RPS", "0.5")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Pollen.APIKey != "env-key" {
		t.Errorf("Pollen.APIKey = %q, want env-key", cfg.Pollen.APIKey)
	}
	if cfg.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q, want gemini-2.0-flash", cfg.Model)
	}
	if cfg.Geocoder.UserAgent != "EnvAgent/1.0" {
		t.Errorf("Geocoder.UserAgent = %q, want EnvAgent/1.0", cfg.Geocoder.UserAgent)
	}
	if cfg.Pollen.RequestsPerSecond != 0.5 {
		t.Errorf("Pollen.RequestsPerSecond = %v, want 0.5", cfg.Pollen.RequestsPerSecond)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigValidate_MissingKey(t *testing.T) {
	if err := DefaultConfig().Validate(); err == nil {
		t.Fatal("Validate() error = nil without an API key")
	}
}

type stubGeocoder struct {
	calls int
}

func (s *stubGeocoder) Name() string { return "stub" }

func (s *stubGeocoder) Geocode(ctx context.Context, q models.LocationQuery) (models.Coordinate, bool) {
	s.calls++
	return models.Coordinate{Latitude: 1, Longitude: 2}, true
}

func TestRateLimitedGeocoder_CanceledContext(t *testing.T) {
	inner := &stubGeocoder{}
	// one token, consumed by the first call
	g := NewRateLimitedGeocoder(inner, 0.001, 1, nil)

	if _, ok := g.Geocode(context.Background(), models.LocationQuery{City: "Austin"}); !ok {
		t.Fatal("first Geocode() reported not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := g.Geocode(ctx, models.LocationQuery{City: "Austin"}); ok {
		t.Fatal("second Geocode() succeeded, want rate limit wait to fail")
	}
	if inner.calls != 1 {
		t.Errorf("inner geocoder called %d times, want 1", inner.calls)
	}
	if g.Name() != "stub [Rate Limited]" {
		t.Errorf("Name() = %q", g.Name())
	}
}

type stubForecastSource struct {
	calls int
}

func (s *stubForecastSource) Name() string { return "stub" }

func (s *stubForecastSource) FetchForecast(ctx context.Context, c models.Coordinate, days int) (models.PollenForecast, error) {
	s.calls++
	return models.PollenForecast{RegionCode: "US"}, nil
}

func TestRateLimitedForecastSource_CanceledContext(t *testing.T) {
	inner := &stubForecastSource{}
	s := NewRateLimitedForecastSource(inner, 0.001, 1)

	if _, err := s.FetchForecast(context.Background(), models.Coordinate{}, 1); err != nil {
		t.Fatalf("first FetchForecast() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.FetchForecast(ctx, models.Coordinate{}, 1); err == nil {
		t.Fatal("second FetchForecast() error = nil, want rate limit error")
	}
	if inner.calls != 1 {
		t.Errorf("inner source called %d times, want 1", inner.calls)
	}
}
