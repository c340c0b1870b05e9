package wikidata

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Wikidata client.
var (
	// ErrRateLimited indicates the service answered 429 Too Many Requests.
	ErrRateLimited = errors.New("Wikidata rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Wikidata")

	// ErrInvalidResponse indicates an unexpected response body.
	ErrInvalidResponse = errors.New("invalid response from Wikidata")

	// ErrEmptyQuery indicates Execute was called without a query.
	ErrEmptyQuery = errors.New("empty SPARQL query")
)

// APIError represents a non-success HTTP status from a Wikidata endpoint.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Wikidata API error (status %d, %s): %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("Wikidata API error (status %d, %s)", e.StatusCode, e.Endpoint)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsTransient reports whether err is worth retrying: throttling, a server
// error, or a failed connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimited(err) || errors.Is(err, ErrNetworkError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}
