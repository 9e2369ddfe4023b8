package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return New(Options{
		Timeout:       time.Second,
		MaxRetries:    3,
		BackoffFactor: 0.001,
		RateLimitRPS:  1000,
	})
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
}

func TestGetJSON_RetriesTransientThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Message)
	assert.Equal(t, int32(3), hits.Load(), "Expected two retries before success")
}

func TestGetJSON_NoRetryOnPermanentStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load(), "Expected no retry on 404")
}

func TestGetJSON_RetriesExhausted(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(4), hits.Load(), "Expected initial attempt plus three retries")
}

func TestGetJSON_RetryableStatusTable(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var out map[string]any
			err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
			require.Error(t, err)

			if tt.retryable {
				assert.Greater(t, hits.Load(), int32(1), "Expected status %d to be retried", tt.status)
			} else {
				assert.Equal(t, int32(1), hits.Load(), "Expected status %d not to be retried", tt.status)
			}
		})
	}
}

func TestGetJSON_TransportErrorRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	var out map[string]any
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
	require.ErrorIs(t, err, ErrRetriesExhausted)
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := newTestClient().GetJSON(ctx, srv.URL, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not-json")
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient().GetJSON(context.Background(), srv.URL, &out)
	assert.Error(t, err)
}

func TestBackoffDelay(t *testing.T) {
	c := New(Options{Timeout: time.Second, MaxRetries: 5, BackoffFactor: 0.3, RateLimitRPS: 1000})

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{1, 300 * time.Millisecond},
		{2, 600 * time.Millisecond},
		{3, 1200 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := c.backoffDelay(tt.retry); got != tt.want {
			t.Errorf("Expected delay %v for retry %d, got %v", tt.want, tt.retry, got)
		}
	}
}
