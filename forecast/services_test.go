package forecast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

func TestNewServices_CachesRepeatedFetches(t *testing.T) {
	var geocodeCalls, forecastCalls atomic.Int32

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls.Add(1)
		w.Write([]byte(`[{"lat":"30.2711286","lon":"-97.7436995"}]`))
	}))
	defer geo.Close()
	pollen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastCalls.Add(1)
		w.Write([]byte(austinPayload))
	}))
	defer pollen.Close()

	cfg := datasource.DefaultConfig()
	cfg.Pollen.APIKey = "test-key"
	cfg.Pollen.BaseURL = pollen.URL
	cfg.Geocoder.BaseURL = geo.URL
	cfg.Geocoder.RequestsPerSecond = 100
	cfg.CacheTTL = datasource.Duration{Duration: time.Minute}

	s := NewServices(cfg, zap.NewNop())
	query := models.LocationQuery{City: "Austin", State: "TX"}

	for i := 0; i < 3; i++ {
		fc, err := s.Fetcher.Fetch(context.Background(), query, 2)
		if err != nil {
			t.Fatalf("Fetch() #%d error = %v", i, err)
		}
		if fc.RegionCode != "US" {
			t.Errorf("RegionCode = %q, want US", fc.RegionCode)
		}
	}

	if n := geocodeCalls.Load(); n != 1 {
		t.Errorf("geocoding service called %d times, want 1", n)
	}
	if n := forecastCalls.Load(); n != 1 {
		t.Errorf("forecast service called %d times, want 1", n)
	}
	if hits, _ := s.Source.CacheStats(); hits != 2 {
		t.Errorf("forecast cache hits = %d, want 2", hits)
	}
}
