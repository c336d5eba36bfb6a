package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      1 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func newBreaker(name string) *CircuitBreakerClient {
	client := New(Config{Timeout: 5 * time.Second, MaxRetries: 0, MaxConnsPerHost: 10})
	return NewCircuitBreakerClient(client, testCBConfig(name), testLogger())
}

func newBreakerWithConfig(cfg CircuitBreakerConfig) *CircuitBreakerClient {
	client := New(Config{Timeout: 5 * time.Second, MaxRetries: 0, MaxConnsPerHost: 10})
	return NewCircuitBreakerClient(client, cfg, testLogger())
}

// tripBreaker drives enough failing requests through cb to open it.
func tripBreaker(cb *CircuitBreakerClient, url string) {
	for i := 0; i < 3; i++ {
		_, _ = cb.Get(context.Background(), url)
	}
}

func serverReturning(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

// ---------------------------------------------------------------------------
// state transitions
// ---------------------------------------------------------------------------

func TestCircuitBreaker_ClosedStateSuccess(t *testing.T) {
	server := serverReturning(http.StatusOK, `{"ok":true}`)
	defer server.Close()

	cb := newBreaker("test-closed")

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_TripsOnFailures(t *testing.T) {
	server := serverReturning(http.StatusInternalServerError, "error")
	defer server.Close()

	cb := newBreaker("test-trip")

	for i := 0; i < 3; i++ {
		_, err := cb.Get(context.Background(), server.URL)
		require.Error(t, err, "500 responses count as breaker failures")
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenToClosedRecovery(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("error"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	cfg := testCBConfig("test-recovery")
	cfg.Timeout = 100 * time.Millisecond
	cb := newBreakerWithConfig(cfg)

	tripBreaker(cb, server.URL)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	// After the open timeout elapses the breaker probes half-open; a healthy
	// response closes it again.
	time.Sleep(150 * time.Millisecond)
	failing.Store(false)

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_4xxNotCountedAsFailure(t *testing.T) {
	server := serverReturning(http.StatusBadRequest, `{"error":"bad request"}`)
	defer server.Close()

	cb := newBreaker("test-4xx")

	for i := 0; i < 5; i++ {
		resp, err := cb.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_OpenStateRejectsWithoutCallingUpstream(t *testing.T) {
	var reqCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqCount.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testCBConfig("test-open-reject")
	cfg.Timeout = 5 * time.Second
	cb := newBreakerWithConfig(cfg)

	tripBreaker(cb, server.URL)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	beforeCount := reqCount.Load()

	for i := 0; i < 5; i++ {
		_, err := cb.Get(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrCircuitOpen)
	}

	assert.Equal(t, beforeCount, reqCount.Load(), "open breaker must not reach the server")
}

// ---------------------------------------------------------------------------
// requests and config
// ---------------------------------------------------------------------------

func TestCircuitBreaker_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"123"}`))
	}))
	defer server.Close()

	cb := newBreaker("test-post")

	resp, err := cb.Post(context.Background(), server.URL, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCircuitBreaker_DefaultConfig(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("test-defaults")

	assert.Equal(t, "test-defaults", cfg.Name)
	assert.Equal(t, uint32(1), cfg.MaxRequests)
	assert.Equal(t, 60*time.Second, cfg.Interval)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0.5, cfg.FailureRatio)
	assert.Equal(t, uint32(5), cfg.MinRequests)
}

func TestCircuitBreaker_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cb := newBreaker("test-ctx")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := cb.Get(ctx, server.URL)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// fallback
// ---------------------------------------------------------------------------

func TestCircuitBreaker_FallbackInvokedWhenOpen(t *testing.T) {
	server := serverReturning(http.StatusInternalServerError, "")
	defer server.Close()

	cfg := testCBConfig("test-fallback")
	cfg.Timeout = 5 * time.Second

	var fallbackCalled atomic.Bool
	cb := newBreakerWithConfig(cfg).WithFallback(func(ctx context.Context, err error) (*http.Response, error) {
		fallbackCalled.Store(true)
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       http.NoBody,
		}, nil
	})

	tripBreaker(cb, server.URL)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, fallbackCalled.Load())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCircuitBreaker_FallbackNotInvokedWhenClosed(t *testing.T) {
	server := serverReturning(http.StatusOK, "ok")
	defer server.Close()

	var fallbackCalled atomic.Bool
	cb := newBreaker("test-fallback-closed").WithFallback(func(ctx context.Context, err error) (*http.Response, error) {
		fallbackCalled.Store(true)
		return nil, fmt.Errorf("fallback error")
	})

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, fallbackCalled.Load())
}

func TestCircuitBreaker_FallbackErrorPropagated(t *testing.T) {
	server := serverReturning(http.StatusInternalServerError, "")
	defer server.Close()

	cfg := testCBConfig("test-fallback-err")
	cfg.Timeout = 5 * time.Second

	cb := newBreakerWithConfig(cfg).WithFallback(func(ctx context.Context, err error) (*http.Response, error) {
		return nil, fmt.Errorf("fallback failed: %w", err)
	})

	tripBreaker(cb, server.URL)

	_, err := cb.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback failed")
}

func TestCircuitBreaker_WithoutFallbackReturnsErrCircuitOpen(t *testing.T) {
	server := serverReturning(http.StatusInternalServerError, "")
	defer server.Close()

	cfg := testCBConfig("test-no-fallback")
	cfg.Timeout = 5 * time.Second
	cb := newBreakerWithConfig(cfg)

	tripBreaker(cb, server.URL)

	_, err := cb.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
