package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/httpclient"
)

func newTestSession(maxRetries int) *httpclient.Session {
	return httpclient.NewSession(httpclient.SessionConfig{
		MaxRetries:    maxRetries,
		BackoffFactor: time.Millisecond,
		MaxBackoff:    10 * time.Millisecond,
	})
}

func TestSessionRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"name":"John"}`, string(body))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	session := newTestSession(3)
	defer session.Close()

	resp, err := session.PostJSON(context.Background(), srv.URL, []byte(`{"name":"John"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSessionPassesThroughFinalResponse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
	}))
	defer srv.Close()

	session := newTestSession(2)
	defer session.Close()

	resp, err := session.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "database unavailable")
	assert.Equal(t, int32(3), calls.Load())
}

func TestSessionDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	session := newTestSession(3)
	defer session.Close()

	resp, err := session.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSessionSetsDefaultHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, httpclient.DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	session := httpclient.NewSession(httpclient.SessionConfig{Headers: map[string]string{"X-Api-Key": "abc"}})
	defer session.Close()

	resp, err := session.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	session := newTestSession(0)
	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	backoff := httpclient.ExponentialBackoff(time.Second, 120*time.Second)
	assert.Equal(t, time.Duration(0), backoff(0, 0, 0, nil))
	assert.Equal(t, 2*time.Second, backoff(0, 0, 1, nil))
	assert.Equal(t, 4*time.Second, backoff(0, 0, 2, nil))
	assert.Equal(t, 120*time.Second, backoff(0, 0, 10, nil))

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"7"}}}
	assert.Equal(t, 7*time.Second, backoff(0, 0, 0, resp))
}

func TestRetryPolicy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, code := range httpclient.RetryStatusCodes {
		retry, err := httpclient.RetryPolicy(ctx, &http.Response{StatusCode: code}, nil)
		require.NoError(t, err)
		assert.True(t, retry, "status %d", code)
	}

	retry, err := httpclient.RetryPolicy(ctx, &http.Response{StatusCode: http.StatusNotImplemented}, nil)
	require.NoError(t, err)
	assert.False(t, retry)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err = httpclient.RetryPolicy(canceled, &http.Response{StatusCode: http.StatusServiceUnavailable}, nil)
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}
