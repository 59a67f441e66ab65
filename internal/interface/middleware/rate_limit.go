package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/technurture/backend/pkg/response"
)

type loginAttempt struct {
	count int
	last  time.Time
}

// LoginRateLimiter tracks failed logins per client IP in process memory.
// Counters live in the instance serving the request, which is acceptable
// for a single-instance deployment; a shared store would be needed behind
// a load balancer.
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*loginAttempt
	max      int
	window   time.Duration
	now      func() time.Time
}

func NewLoginRateLimiter(max int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts: make(map[string]*loginAttempt),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// StartSweeper drops stale counters in the background so the map does not
// grow with every IP that ever failed a login. Returns a stop function.
func (l *LoginRateLimiter) StartSweeper(interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.sweep()
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}

func (l *LoginRateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	for ip, a := range l.attempts {
		if a.last.Before(cutoff) {
			delete(l.attempts, ip)
		}
	}
}

// Allow reports whether the IP may attempt a login, and if not, how long
// until the window reopens. A counter older than the window resets.
func (l *LoginRateLimiter) Allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.attempts[ip]
	if !ok {
		return true, 0
	}
	elapsed := l.now().Sub(a.last)
	if elapsed >= l.window {
		delete(l.attempts, ip)
		return true, 0
	}
	if a.count >= l.max {
		return false, l.window - elapsed
	}
	return true, 0
}

// RecordFailure counts a failed login for the IP. The window restarts from
// the most recent failure.
func (l *LoginRateLimiter) RecordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	a, ok := l.attempts[ip]
	if !ok || now.Sub(a.last) >= l.window {
		l.attempts[ip] = &loginAttempt{count: 1, last: now}
		return
	}
	a.count++
	a.last = now
}

// Reset clears the counter after a successful login.
func (l *LoginRateLimiter) Reset(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, ip)
}

// LoginRateLimit rejects login attempts from IPs that exhausted their
// failure budget. The handler records failures and resets on success.
func LoginRateLimit(l *LoginRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := l.Allow(ClientIP(c))
		if !ok {
			sec := int(retryAfter.Seconds())
			if sec < 1 {
				sec = 1
			}
			response.Fail(c, http.StatusTooManyRequests, "too many login attempts, try again later", gin.H{"retry_after_seconds": sec})
			return
		}
		c.Next()
	}
}

// ClientIP extracts the client IP, preferring the value set by RealIP.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
