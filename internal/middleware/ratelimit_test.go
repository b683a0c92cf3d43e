package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func sendFrom(h http.Handler, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	handler := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, Burst: 10}).Handler(okHandler())

	for range 5 {
		rec := sendFrom(handler, "192.0.2.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	handler := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}).Handler(okHandler())

	for range 2 {
		require.Equal(t, http.StatusOK, sendFrom(handler, "192.0.2.1:1234").Code)
	}

	rec := sendFrom(handler, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Too many requests, please try again later.", body.Message)
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	handler := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}).Handler(okHandler())

	require.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(handler, "10.0.0.1:5678").Code)
	assert.Equal(t, http.StatusOK, sendFrom(handler, "10.0.0.2:1234").Code)
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTimeout: time.Minute})
	now := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now
	handler := limiter.Handler(okHandler())

	sendFrom(handler, "10.0.0.1:1")
	sendFrom(handler, "10.0.0.2:1")
	assert.Equal(t, 2, limiter.Clients())

	now = now.Add(30 * time.Second)
	sendFrom(handler, "10.0.0.2:1")
	assert.Equal(t, 2, limiter.Clients(), "no sweep before the idle timeout")

	now = now.Add(45 * time.Second)
	sendFrom(handler, "10.0.0.3:1")
	assert.Equal(t, 2, limiter.Clients(), "10.0.0.1 was idle for 75s and is dropped")
}
