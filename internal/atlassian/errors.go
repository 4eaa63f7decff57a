package atlassian

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError represents a non-2xx response that is not retried.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// RateLimitError is returned after the retry ceiling is exhausted on
// consecutive HTTP 429 responses. It carries the last response for
// diagnostics.
type RateLimitError struct {
	StatusCode int
	Body       string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit retries exhausted: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a request failure with HTTP 404.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a request failure with HTTP 401.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized
}
