package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/wxtools/zipcast/internal/config"
)

var (
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// StatusError is returned when an upstream API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// retryableStatus lists the status codes worth retrying on an idempotent GET.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Options configures a Client. Zero values fall back to the config package.
type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor float64 // base backoff in seconds; delay is factor * 2^(retry-1)
	RateLimitRPS  float64
	HTTPClient    *http.Client // overrides Timeout when set; used by tests
}

// Client issues JSON GET requests with bounded retries, exponential backoff,
// an outbound rate limit, and a circuit breaker in front of the upstream.
type Client struct {
	httpClient    *http.Client
	maxRetries    int
	backoffFactor float64
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
}

// New creates a Client from the given options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = config.GetHTTPTimeout()
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = config.GetMaxRetries()
	}
	if opts.BackoffFactor == 0 {
		opts.BackoffFactor = config.GetBackoffFactor()
	}
	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS = config.GetRateLimitRPS()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	maxRetries := opts.MaxRetries
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "upstream",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// One run retries at most maxRetries times per request; the
			// breaker only trips once a full request has been given up on.
			return counts.ConsecutiveFailures > uint32(maxRetries+1)
		},
	})

	return &Client{
		httpClient:    httpClient,
		maxRetries:    opts.MaxRetries,
		backoffFactor: opts.BackoffFactor,
		limiter:       rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1),
		breaker:       breaker,
	}
}

// GetJSON fetches url and decodes the response body into target. Transport
// errors and 429/5xx responses are retried with exponential backoff; any other
// non-2xx status fails immediately with a *StatusError.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	log := config.GetLogger()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt)
			log.Debugw("Retrying request", "url", url, "attempt", attempt, "delay", delay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, err := c.doOnce(ctx, url)
		if err == nil {
			return json.Unmarshal(body, target)
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !retryableStatus[statusErr.StatusCode] {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, c.maxRetries+1, lastErr)
}

// doOnce performs a single GET through the circuit breaker and returns the
// response body on a 2xx status.
func (c *Client) doOnce(ctx context.Context, url string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "zipcast (github.com/wxtools/zipcast)")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

// backoffDelay computes the delay before the given retry (1-based) as
// factor * 2^(retry-1) seconds.
func (c *Client) backoffDelay(retry int) time.Duration {
	seconds := c.backoffFactor * math.Pow(2, float64(retry-1))
	return time.Duration(seconds * float64(time.Second))
}
