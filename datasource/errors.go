package datasource

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when a location could not be geocoded
	ErrLocationNotFound = errors.New("location not found")

	// ErrForecastService is the base error for non-2xx forecast responses
	ErrForecastService = errors.New("forecast service error")

	// ErrMalformedResponse indicates a response body that could not be parsed
	ErrMalformedResponse = errors.New("malformed response")
)

// ForecastServiceError carries the status and body of a failed forecast call.
// Use errors.As to extract it from a wrapped error chain.
type ForecastServiceError struct {
	StatusCode int
	Body       string
}

func (e *ForecastServiceError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *ForecastServiceError) Unwrap() error { return ErrForecastService }
