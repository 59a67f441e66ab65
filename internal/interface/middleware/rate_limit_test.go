package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimiterAllowsUntilBudgetSpent(t *testing.T) {
	l := NewLoginRateLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("10.0.0.1")
		assert.True(t, ok, "attempt %d should be allowed", i+1)
		l.RecordFailure("10.0.0.1")
	}

	ok, retry := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	// other IPs are unaffected
	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)
}

func TestLoginRateLimiterWindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLoginRateLimiter(5, 15*time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		l.RecordFailure("10.0.0.1")
	}
	ok, _ := l.Allow("10.0.0.1")
	assert.False(t, ok)

	now = now.Add(14 * time.Minute)
	ok, retry := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	now = now.Add(time.Minute)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok, "window elapsed, counter should reset")
}

func TestLoginRateLimiterResetOnSuccess(t *testing.T) {
	l := NewLoginRateLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		l.RecordFailure("10.0.0.1")
	}
	l.Reset("10.0.0.1")

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestLoginRateLimiterSweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLoginRateLimiter(5, 15*time.Minute)
	l.now = func() time.Time { return now }

	l.RecordFailure("10.0.0.1")
	l.RecordFailure("10.0.0.2")

	now = now.Add(16 * time.Minute)
	l.sweep()

	l.mu.Lock()
	remaining := len(l.attempts)
	l.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	l := NewLoginRateLimiter(1, 15*time.Minute)
	r := gin.New()
	r.POST("/login", LoginRateLimit(l), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// httptest requests carry the fixed RemoteAddr 192.0.2.1
	l.RecordFailure("192.0.2.1")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after_seconds")
}
