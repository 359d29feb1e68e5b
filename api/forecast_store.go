package api

import (
	"sort"
	"sync"
	"time"

	"wellness-agents/models"
)

// DefaultMaxAge is how long a stored forecast is served before it is fetched again
const DefaultMaxAge = 30 * time.Minute

// ForecastStore holds the latest pollen forecast per location
type ForecastStore struct {
	data   map[string]models.ForecastRecord // key is LocationQuery.Key()
	mutex  sync.RWMutex
	maxAge time.Duration
	now    func() time.Time
}

// NewForecastStore creates a new in-memory forecast data store
func NewForecastStore() *ForecastStore {
	return &ForecastStore{
		data:   make(map[string]models.ForecastRecord),
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
}

// SetMaxAge changes how long a stored forecast is served. Non-positive values are ignored.
func (s *ForecastStore) SetMaxAge(maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	s.mutex.Lock()
	s.maxAge = maxAge
	s.mutex.Unlock()
}

// UpdateForecast adds or replaces the forecast for a location
func (s *ForecastStore) UpdateForecast(record models.ForecastRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[record.Location.Key()] = record
}

// GetForecast retrieves the stored forecast for a location.
// A forecast older than the store's max age, or covering fewer days than
// requested, is treated as missing.
func (s *ForecastStore) GetForecast(location models.LocationQuery, days int) (models.ForecastRecord, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, exists := s.data[location.Key()]
	if !exists || record.Days < days || s.now().Sub(record.Updated) >= s.maxAge {
		return models.ForecastRecord{}, false
	}
	return record, true
}

// GetAllForecastLocations returns all locations with forecast data, sorted by key
func (s *ForecastStore) GetAllForecastLocations() []models.LocationQuery {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	locations := make([]models.LocationQuery, 0, len(keys))
	for _, k := range keys {
		locations = append(locations, s.data[k].Location)
	}
	return locations
}

// PruneOldForecasts removes forecasts older than the specified duration
func (s *ForecastStore) PruneOldForecasts(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxAge)
	prunedCount := 0

	for key, record := range s.data {
		if record.Updated.Before(cutoff) {
			delete(s.data, key)
			prunedCount++
		}
	}

	return prunedCount
}
