package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellness-agents/models"
)

type countingGeocoder struct {
	calls int
	found bool
}

func (g *countingGeocoder) Name() string { return "counting" }

func (g *countingGeocoder) Geocode(ctx context.Context, q models.LocationQuery) (models.Coordinate, bool) {
	g.calls++
	if !g.found {
		return models.Coordinate{}, false
	}
	return models.Coordinate{Latitude: 30.27, Longitude: -97.74}, true
}

func TestCachedGeocoder(t *testing.T) {
	inner := &countingGeocoder{found: true}
	c := NewCachedGeocoder(inner, time.Minute, nil)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.store.now = func() time.Time { return now }

	ctx := context.Background()
	for _, q := range []models.LocationQuery{
		{City: "Austin", State: "TX"},
		{City: "austin", State: "tx"},
		{City: " Austin ", State: "TX"},
	} {
		if _, ok := c.Geocode(ctx, q); !ok {
			t.Fatalf("Geocode(%v) reported not found", q)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner geocoder called %d times, want 1", inner.calls)
	}
	if hits, misses := c.CacheStats(); hits != 2 || misses != 1 {
		t.Errorf("CacheStats() = %d hits, %d misses; want 2, 1", hits, misses)
	}

	// expire the entry
	now = now.Add(2 * time.Minute)
	c.Geocode(ctx, models.LocationQuery{City: "Austin", State: "TX"})
	if inner.calls != 2 {
		t.Errorf("inner geocoder called %d times after expiry, want 2", inner.calls)
	}
}

func TestCachedGeocoder_NotFoundIsNotCached(t *testing.T) {
	inner := &countingGeocoder{found: false}
	c := NewCachedGeocoder(inner, time.Hour, nil)

	q := models.LocationQuery{City: "Atlantis", State: "XX"}
	for i := 0; i < 3; i++ {
		if _, ok := c.Geocode(context.Background(), q); ok {
			t.Fatal("Geocode() reported found")
		}
	}
	if inner.calls != 3 {
		t.Errorf("inner geocoder called %d times, want 3", inner.calls)
	}
}

type countingForecastSource struct {
	calls int
	err   error
}

func (s *countingForecastSource) Name() string { return "counting" }

func (s *countingForecastSource) FetchForecast(ctx context.Context, c models.Coordinate, days int) (models.PollenForecast, error) {
	s.calls++
	if s.err != nil {
		return models.PollenForecast{}, s.err
	}
	return models.PollenForecast{RegionCode: "US"}, nil
}

func TestCachedForecastSource(t *testing.T) {
	inner := &countingForecastSource{}
	c := NewCachedForecastSource(inner, time.Minute, nil)
	ctx := context.Background()
	coord := models.Coordinate{Latitude: 30.27, Longitude: -97.74}

	c.FetchForecast(ctx, coord, 5)
	c.FetchForecast(ctx, coord, 5)
	c.FetchForecast(ctx, coord, 3) // different days, separate entry

	if inner.calls != 2 {
		t.Errorf("inner source called %d times, want 2", inner.calls)
	}
	if hits, misses := c.CacheStats(); hits != 1 || misses != 2 {
		t.Errorf("CacheStats() = %d hits, %d misses; want 1, 2", hits, misses)
	}
	if c.Name() != "counting [Cached]" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestCachedForecastSource_ErrorsAreNotCached(t *testing.T) {
	inner := &countingForecastSource{err: errors.New("boom")}
	c := NewCachedForecastSource(inner, time.Minute, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.FetchForecast(context.Background(), models.Coordinate{}, 1); err == nil {
			t.Fatal("FetchForecast() error = nil")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner source called %d times, want 2", inner.calls)
	}
}
