package models

import (
	"fmt"
	"strings"
)

// LocationQuery is a free-text place name as given by a user
type LocationQuery struct {
	City  string `json:"city"`
	State string `json:"state"` // conventionally a 2-letter code, not enforced
}

// String formats the query as "City, ST"
func (q LocationQuery) String() string {
	if q.State == "" {
		return q.City
	}
	return fmt.Sprintf("%s, %s", q.City, q.State)
}

// Key returns a case-insensitive identifier suitable for map keys
func (q LocationQuery) Key() string {
	return strings.ToLower(strings.TrimSpace(q.City)) + "," + strings.ToLower(strings.TrimSpace(q.State))
}

// Coordinate is a resolved geographic position
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the coordinate with enough precision for cache keys
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
