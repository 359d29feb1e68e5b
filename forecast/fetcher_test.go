package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

const austinPayload = `{"regionCode":"US","dailyInfo":[{"date":{"year":2024,"month":3,"day":1},"pollenTypeInfo":[{"displayName":"Grass","inSeason":true,"indexInfo":{"value":3,"category":"Moderate"}}]}]}`

// fakeServices runs a geocoding service and a forecast service on httptest
// servers and counts forecast calls.
type fakeServices struct {
	geocoder      *datasource.NominatimGeocoder
	pollen        *datasource.GooglePollenProvider
	forecastCalls atomic.Int32
	lastDays      atomic.Value
}

func newFakeServices(t *testing.T, geocodeBody string, forecastStatus int, forecastBody string) *fakeServices {
	t.Helper()
	fs := &fakeServices{}

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(geo.Close)

	pollen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.forecastCalls.Add(1)
		fs.lastDays.Store(r.URL.Query().Get("days"))
		w.WriteHeader(forecastStatus)
		w.Write([]byte(forecastBody))
	}))
	t.Cleanup(pollen.Close)

	fs.geocoder = datasource.NewNominatimGeocoder("", zap.NewNop())
	fs.geocoder.SetBaseURL(geo.URL)
	fs.pollen = datasource.NewGooglePollenProvider("test-key", zap.NewNop())
	fs.pollen.SetBaseURL(pollen.URL)
	return fs
}

func (fs *fakeServices) fetcher() *Fetcher {
	return NewFetcher(fs.geocoder, fs.pollen, zap.NewNop())
}

func TestClampDays(t *testing.T) {
	tests := []struct {
		days, want int
	}{
		{days: 1, want: 1},
		{days: 3, want: 3},
		{days: 5, want: 5},
		{days: 6, want: 5},
		{days: 100, want: 5},
		{days: 0, want: 1},
		{days: -2, want: 1},
	}
	for _, tt := range tests {
		if got := ClampDays(tt.days); got != tt.want {
			t.Errorf("ClampDays(%d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestFetcher_Austin(t *testing.T) {
	fs := newFakeServices(t, `[{"lat":"30.27","lon":"-97.74"}]`, http.StatusOK, austinPayload)

	res, err := fs.fetcher().FetchResult(context.Background(), models.LocationQuery{City: "Austin", State: "TX"}, DefaultDays)
	if err != nil {
		t.Fatalf("FetchResult() error = %v", err)
	}

	if diff := cmp.Diff(models.Coordinate{Latitude: 30.27, Longitude: -97.74}, res.Coordinate); diff != "" {
		t.Errorf("coordinate mismatch (-want +got):\n%s", diff)
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(austinPayload), &want); err != nil {
		t.Fatal(err)
	}
	got, err = res.Forecast.Map()
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	var out strings.Builder
	if err := Render(&out, res.Forecast); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out.String(), "2024-03-01") || !strings.Contains(out.String(), "Grass") {
		t.Errorf("Render() output missing date or pollen type:\n%s", out.String())
	}
}

func TestFetcher_DaysSentToService(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: 2, want: "2"},
		{days: 5, want: "5"},
		{days: 9, want: "5"},
	}
	for _, tt := range tests {
		fs := newFakeServices(t, `[{"lat":"1","lon":"2"}]`, http.StatusOK, `{}`)
		res, err := fs.fetcher().FetchResult(context.Background(), models.LocationQuery{City: "Austin", State: "TX"}, tt.days)
		if err != nil {
			t.Fatalf("FetchResult(days=%d) error = %v", tt.days, err)
		}
		if got := fs.lastDays.Load(); got != tt.want {
			t.Errorf("days=%d: service received days=%v, want %s", tt.days, got, tt.want)
		}
		if res.Days != ClampDays(tt.days) {
			t.Errorf("days=%d: Result.Days = %d", tt.days, res.Days)
		}
	}
}

func TestFetcher_LocationNotFound(t *testing.T) {
	fs := newFakeServices(t, `[]`, http.StatusOK, austinPayload)

	_, err := fs.fetcher().Fetch(context.Background(), models.LocationQuery{City: "Atlantis", State: "XX"}, 5)
	if !errors.Is(err, datasource.ErrLocationNotFound) {
		t.Fatalf("Fetch() error = %v, want ErrLocationNotFound", err)
	}
	if n := fs.forecastCalls.Load(); n != 0 {
		t.Errorf("forecast service called %d times, want 0", n)
	}
}

func TestFetcher_ForecastServiceError(t *testing.T) {
	fs := newFakeServices(t, `[{"lat":"30.27","lon":"-97.74"}]`, http.StatusInternalServerError, `backend unavailable`)

	_, err := fs.fetcher().Fetch(context.Background(), models.LocationQuery{City: "Austin", State: "TX"}, 5)
	if err == nil {
		t.Fatal("Fetch() error = nil, want service error")
	}
	if errors.Is(err, datasource.ErrLocationNotFound) {
		t.Error("service error matched ErrLocationNotFound")
	}
	var svcErr *datasource.ForecastServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Fetch() error = %v, want *ForecastServiceError", err)
	}
	if svcErr.StatusCode != http.StatusInternalServerError || svcErr.Body != "backend unavailable" {
		t.Errorf("ForecastServiceError = %+v", svcErr)
	}
}
