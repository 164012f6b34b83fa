// Package httpclient builds the outbound HTTP session used for user creation
// requests. Retries, backoff and timeouts are declared here once and the
// callers only ever see the final response of a request.
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultUserAgent = "UserProvisioning/2.0"

// RetryStatusCodes are the response codes retried by the session.
var RetryStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

type SessionConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BackoffFactor scales the exponential delay between retries. The first
	// retry is immediate, then factor*2, factor*4, ...
	BackoffFactor time.Duration

	// MaxBackoff caps a single delay, including Retry-After values.
	MaxBackoff time.Duration

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	UserAgent string
	Headers   map[string]string

	Logger *slog.Logger
}

// Session is a configured outbound client. It is not safe to use after Close.
type Session struct {
	client  *retryablehttp.Client
	headers http.Header

	closeOnce sync.Once
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffFactor < 0 {
		cfg.BackoffFactor = 0
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 120 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		ExpectContinueTimeout: time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Transport: transport}
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.BackoffFactor
	client.RetryWaitMax = cfg.MaxBackoff
	client.CheckRetry = RetryPolicy
	client.Backoff = ExponentialBackoff(cfg.BackoffFactor, cfg.MaxBackoff)
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if cfg.Logger != nil {
		client.Logger = cfg.Logger
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", cfg.UserAgent)
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	return &Session{client: client, headers: headers}
}

// PostJSON sends body to url with the session headers. The response is the one
// returned by the last attempt once the retry budget is spent.
func (s *Session) PostJSON(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, values := range s.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return s.client.Do(req)
}

// Close releases idle connections. Calling it more than once is a no-op.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.client.HTTPClient.CloseIdleConnections()
	})
	return nil
}

// RetryPolicy retries transport errors through the library default and the
// status codes in RetryStatusCodes for every method.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp == nil {
		return false, nil
	}
	for _, code := range RetryStatusCodes {
		if resp.StatusCode == code {
			return true, nil
		}
	}
	return false, nil
}

// ExponentialBackoff waits 0 before the first retry and factor*2^n before
// retry n+1. A Retry-After header on 429 and 503 responses takes precedence.
func ExponentialBackoff(factor, maxWait time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if wait, ok := retryAfter(resp); ok {
			if wait > maxWait {
				return maxWait
			}
			return wait
		}
		if attemptNum <= 0 || factor <= 0 {
			return 0
		}
		wait := float64(factor) * math.Pow(2, float64(attemptNum))
		if wait > float64(maxWait) {
			return maxWait
		}
		return time.Duration(wait)
	}
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return 0, false
	}
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(raw); err == nil {
		wait := time.Until(at)
		if wait < 0 {
			wait = 0
		}
		return wait, true
	}
	return 0, false
}
