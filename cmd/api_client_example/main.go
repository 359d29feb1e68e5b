package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"wellness-agents/models"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "Base URL of the pollen service")
	days := flag.Int("days", 3, "Number of forecast days to request")
	flag.Parse()

	fmt.Println("Pollen API Client Example")
	fmt.Println("=========================")

	client := &http.Client{Timeout: 10 * time.Second}

	// Get available locations
	fmt.Println("\nFetching stored locations...")
	var locationsData struct {
		Locations []models.LocationQuery `json:"locations"`
		Count     int                    `json:"count"`
	}
	if err := getJSON(client, *baseURL+"/api/pollen/locations", &locationsData); err != nil {
		fmt.Printf("Error fetching locations: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Available locations: %v\n\n", locationsData.Locations)

	location := models.LocationQuery{City: "Austin", State: "TX"}
	if locationsData.Count > 0 {
		location = locationsData.Locations[0]
	}

	// Get the forecast for the selected location
	fmt.Printf("Fetching pollen forecast for %s...\n", location)
	forecastURL := fmt.Sprintf("%s/api/pollen/%s/%s?days=%d",
		*baseURL, url.PathEscape(location.State), url.PathEscape(location.City), *days)

	var forecastData map[string]any
	if err := getJSON(client, forecastURL, &forecastData); err != nil {
		fmt.Printf("Error fetching forecast: %v\n", err)
		os.Exit(1)
	}

	// Pretty print the result
	prettyJSON, _ := json.MarshalIndent(forecastData, "", "  ")
	fmt.Printf("\nPollen forecast for %s:\n%s\n", location, string(prettyJSON))
}

func getJSON(client *http.Client, target string, v any) error {
	resp, err := client.Get(target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, v)
}
