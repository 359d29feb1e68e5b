package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"wellness-agents/datasource"
	"wellness-agents/models"
)

// mockForecastSource simulates pollen service latency and counts calls
type mockForecastSource struct {
	mu        sync.Mutex
	callCount int
	latency   time.Duration
}

func (m *mockForecastSource) FetchForecast(ctx context.Context, coord models.Coordinate, days int) (models.PollenForecast, error) {
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	fmt.Printf("%s - Processing request #%d for %s\n", time.Now().Format("15:04:05.000"), n, coord)

	select {
	case <-time.After(m.latency):
	case <-ctx.Done():
		return models.PollenForecast{}, ctx.Err()
	}
	return models.PollenForecast{RegionCode: "US"}, nil
}

func (m *mockForecastSource) Name() string {
	return "MockPollen"
}

func (m *mockForecastSource) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func main() {
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 3, "Maximum burst size")
	totalRequests := flag.Int("requests", 10, "Total number of requests to make")
	concurrentRequests := flag.Int("concurrent", 5, "Number of concurrent requests")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mock := &mockForecastSource{latency: 200 * time.Millisecond}
	source := datasource.NewRateLimitedForecastSource(mock, *requestsPerSecond, *burstSize)

	fmt.Printf("Testing rate limiter with:\n")
	fmt.Printf("- Rate limit: %.2f requests/second\n", *requestsPerSecond)
	fmt.Printf("- Burst size: %d\n", *burstSize)
	fmt.Printf("- Total requests: %d\n", *totalRequests)
	fmt.Printf("- Concurrent workers: %d\n", *concurrentRequests)
	fmt.Println("Starting test...")

	startTime := time.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < *concurrentRequests; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				coord := models.Coordinate{Latitude: 30 + float64(j)/100, Longitude: -97.74}
				before := time.Now()
				if _, err := source.FetchForecast(ctx, coord, 1); err != nil {
					log.Printf("Worker %d - Request %d failed: %v", workerID, j, err)
					continue
				}
				log.Printf("Worker %d - Request %d completed in %v", workerID, j, time.Since(before))
			}
		}(w)
	}
	for j := 0; j < *totalRequests; j++ {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	totalTime := time.Since(startTime)
	actualRPS := float64(*totalRequests) / totalTime.Seconds()

	fmt.Println("\nTest completed!")
	fmt.Printf("Total time: %.2f seconds\n", totalTime.Seconds())
	fmt.Printf("Actual requests per second: %.2f\n", actualRPS)
	fmt.Printf("Total requests processed: %d\n", mock.calls())

	expectedMinTime := float64(*totalRequests-*burstSize) / *requestsPerSecond
	if expectedMinTime < 0 {
		expectedMinTime = 0
	}
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMinTime)

	if actualRPS > *requestsPerSecond*1.5 && *totalRequests > *burstSize {
		fmt.Println("\nWARNING: actual RPS is well above the configured rate limit")
	} else {
		fmt.Println("\nRate limiting appears to be working correctly.")
	}
}
