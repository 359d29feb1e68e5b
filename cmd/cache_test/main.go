package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellness-agents/cache"
	"wellness-agents/datasource"
	"wellness-agents/models"
)

func main() {
	ttl := flag.Duration("ttl", 15*time.Second, "Cache lifetime for the demonstration")
	flag.Parse()

	fmt.Println("=== Running Geocode Cache Demo ===")
	fmt.Println("Repeated lookups of the same places should be served from the cache")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}
	config := datasource.DefaultConfig()
	config.ApplyEnv()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Nominatim allows one request per second, so limit before caching
	nominatim := datasource.NewNominatimGeocoder(config.Geocoder.UserAgent, logger)
	limited := datasource.NewRateLimitedGeocoder(nominatim, config.Geocoder.RequestsPerSecond, 1, logger)
	geocoder := cache.NewCachedGeocoder(limited, *ttl, logger)

	ctx := context.Background()
	locations := []models.LocationQuery{
		{City: "Austin", State: "TX"},
		{City: "San Jose", State: "CA"},
	}

	fmt.Println("\n*** First Request - Should be cache misses ***")
	lookup(ctx, geocoder, locations)

	fmt.Println("\n*** Second Request - Should use cached coordinates ***")
	lookup(ctx, geocoder, locations)

	fmt.Printf("\nWaiting for cache to expire (%s)...\n", *ttl)
	time.Sleep(*ttl + time.Second)

	fmt.Println("\n*** After Expiry - Should be cache misses again ***")
	lookup(ctx, geocoder, locations)

	hits, misses := geocoder.CacheStats()
	fmt.Printf("\nStats for %s: %d cache hits, %d cache misses\n", geocoder.Name(), hits, misses)
	fmt.Println("\n=== Cache Demo Complete ===")
}

func lookup(ctx context.Context, geocoder datasource.Geocoder, locations []models.LocationQuery) {
	for _, location := range locations {
		start := time.Now()
		coord, ok := geocoder.Geocode(ctx, location)
		if !ok {
			fmt.Printf("No coordinates for %s\n", location)
			continue
		}
		fmt.Printf("%s -> %s (%v)\n", location, coord, time.Since(start).Round(time.Millisecond))
	}
}
