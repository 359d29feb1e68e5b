package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// PollenForecast is a multi-day pollen forecast for one location.
//
// Raw holds the forecast service's response body exactly as received; the
// remaining fields are a typed view parsed from it.
type PollenForecast struct {
	Raw        json.RawMessage `json:"-"`
	RegionCode string          `json:"regionCode,omitempty"`
	DailyInfo  []DailyInfo     `json:"dailyInfo,omitempty"`
}

// DailyInfo is the forecast for a single day
type DailyInfo struct {
	Date           Date               `json:"date"`
	PollenTypeInfo []PollenIndexEntry `json:"pollenTypeInfo,omitempty"`
	PlantInfo      []PollenIndexEntry `json:"plantInfo,omitempty"` // absent for some regions
}

// Date is a calendar date as returned by the forecast service
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// PollenIndexEntry describes one pollen type (grass, tree, weed) or plant
type PollenIndexEntry struct {
	Code        string     `json:"code,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	InSeason    bool       `json:"inSeason,omitempty"`
	IndexInfo   *IndexInfo `json:"indexInfo,omitempty"`
}

// IndexInfo is the universal pollen index for an entry
type IndexInfo struct {
	Code        string `json:"code,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Value       *int   `json:"value,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ForecastRecord is a stored forecast together with where and when it was fetched
type ForecastRecord struct {
	Location   LocationQuery  `json:"location"`
	Coordinate Coordinate     `json:"coordinate"`
	Days       int            `json:"days"`
	Forecast   PollenForecast `json:"-"`
	Updated    time.Time      `json:"updated"`
}

// ParsePollenForecast builds a PollenForecast from a raw response body.
// The body is retained unmodified in Raw.
func ParsePollenForecast(body []byte) (PollenForecast, error) {
	var forecast PollenForecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return PollenForecast{}, err
	}
	forecast.Raw = json.RawMessage(append([]byte(nil), body...))
	return forecast, nil
}

// Map decodes Raw into a generic JSON object
func (f PollenForecast) Map() (map[string]any, error) {
	out := map[string]any{}
	if len(f.Raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(f.Raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
