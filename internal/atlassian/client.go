// Package atlassian provides the shared HTTP transport for the JIRA and
// Confluence REST clients: basic authentication and retry-on-429 backoff.
package atlassian

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 5
)

// Client issues authenticated requests against an Atlassian cloud base URL.
// Rate-limited responses are retried with the server-suggested wait, falling
// back to exponential backoff; any other error response surfaces immediately.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL using basic auth over
// base64-encoded "email:token" credentials.
func NewClient(baseURL, email, apiToken string) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + credentials,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Get performs a GET request against path (relative to the base URL) and
// returns the response body. On HTTP 429 it sleeps and retries up to the
// retry ceiling, then fails with a RateLimitError carrying the last
// response. Any other non-2xx status returns a RequestError without retry.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var lastStatus int
	var lastBody []byte

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", c.authHeader)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastStatus = resp.StatusCode
			lastBody = body
			delay := retryDelay(resp.Header.Get("Retry-After"), attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	}

	return nil, &RateLimitError{StatusCode: lastStatus, Body: string(lastBody)}
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// retryDelay honours a Retry-After header expressed in seconds, falling
// back to exponential 2^attempt backoff.
func retryDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(1<<attempt) * time.Second
}
