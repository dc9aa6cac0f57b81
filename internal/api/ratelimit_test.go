package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_Window(t *testing.T) {
	rl := NewMemoryRateLimiter().(*memoryRateLimiter)
	defer rl.Close()

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed)
	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed)
	denied := rl.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, denied.Allowed)
	assert.Equal(t, now.Add(time.Minute), denied.WindowEnd)

	assert.True(t, rl.Allow(ctx, "other", 2, time.Minute).Allowed, "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow(ctx, "k", 2, time.Minute).Allowed, "window resets")

	rl.cleanup(now.Add(time.Hour))
	assert.Empty(t, rl.entries)
}

func TestMemoryRateLimiter_NoLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()
	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(context.Background(), "k", 0, time.Minute).Allowed)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	h := RateLimit(rl, "auth", 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, "other clients are unaffected")
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimit(nil, "auth", 1, time.Minute)(next)
	require.NotNil(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRedisRateLimiter_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := NewRedisRateLimiter(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
