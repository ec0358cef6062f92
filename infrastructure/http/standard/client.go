// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Fetches feeds with exponential backoff and an optional per-host rate limit

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/featureflags"
)

const (
	defaultRetries = 3
	userAgent      = "TechPulse/1.0 (+feed ingestion)"
)

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client  *http.Client
	retries int
	limiter *HostLimiter
	flags   featureflags.Manager
}

// ClientOption configures a StandardHTTPClient
type ClientOption func(*StandardHTTPClient)

// WithRetries sets how many attempts a GET makes; values below 1 mean one attempt
func WithRetries(n int) ClientOption {
	return func(c *StandardHTTPClient) {
		if n < 1 {
			n = 1
		}
		c.retries = n
	}
}

// WithHostLimiter throttles requests per feed host
func WithHostLimiter(l *HostLimiter) ClientOption {
	return func(c *StandardHTTPClient) {
		c.limiter = l
	}
}

// WithFlags gates the host limiter behind featureflags.RateLimitEnabled
func WithFlags(m featureflags.Manager) ClientOption {
	return func(c *StandardHTTPClient) {
		c.flags = m
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...ClientOption) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.wait(ctx, req); err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			lastErr = err
			resp = nil
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		if attempt < c.retries-1 {
			// Close body for retry; the last 5xx response is returned to the caller
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

func (c *StandardHTTPClient) wait(ctx context.Context, req *http.Request) error {
	if c.limiter == nil || !featureflags.Enabled(ctx, c.flags, featureflags.RateLimitEnabled) {
		return nil
	}
	return c.limiter.Wait(ctx, req.URL.Host)
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
