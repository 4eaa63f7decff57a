package atlassian

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsBasicAuth(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "secret-token")
	body, err := client.Get(context.Background(), "/rest/api/3/myself", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:secret-token"))
	assert.Equal(t, expected, gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetRetriesOnRateLimit(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	body, err := client.Get(context.Background(), "/path", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, 3, requests)
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.Get(context.Background(), "/path", nil)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, http.StatusTooManyRequests, rateErr.StatusCode)
	assert.Equal(t, "slow down", rateErr.Body)
	assert.Equal(t, maxRetries, requests)
}

func TestGetDoesNotRetryOtherErrors(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad credentials"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.Get(context.Background(), "/path", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.Equal(t, "bad credentials", reqErr.Body)
	assert.Equal(t, 1, requests)
}

func TestGetHonoursContextDuringRetryWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "user@example.com", "token")
	_, err := client.Get(ctx, "/path", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"displayName":"Alice","emailAddress":"alice@example.com"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user@example.com", "token")
	var payload struct {
		DisplayName  string `json:"displayName"`
		EmailAddress string `json:"emailAddress"`
	}
	err := client.GetJSON(context.Background(), "/me", nil, &payload)
	require.NoError(t, err)
	assert.Equal(t, "Alice", payload.DisplayName)
	assert.Equal(t, "alice@example.com", payload.EmailAddress)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 3*time.Second, retryDelay("3", 0))
	assert.Equal(t, time.Duration(0), retryDelay("0", 4))
	assert.Equal(t, 1*time.Second, retryDelay("", 0))
	assert.Equal(t, 4*time.Second, retryDelay("", 2))
	assert.Equal(t, 2*time.Second, retryDelay("not-a-number", 1))
	assert.Equal(t, 1*time.Second, retryDelay("-2", 0))
}
