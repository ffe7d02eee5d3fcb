// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a per-client token bucket limiter for inbound API calls.
// Outbound provider pacing is separate and lives with each adapter.
type IPRateLimiter struct {
	mu             sync.Mutex
	entries        map[string]*limiterEntry
	requestsPerMin int
	burst          int
	idleTTL        time.Duration
	lastSweep      time.Time
	now            func() time.Time
}

// NewIPRateLimiter allows requestsPerMinute per client IP with the given burst.
func NewIPRateLimiter(requestsPerMinute int, burst int) *IPRateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		entries:        make(map[string]*limiterEntry),
		requestsPerMin: requestsPerMinute,
		burst:          burst,
		idleTTL:        15 * time.Minute,
		now:            time.Now,
	}
}

func (r *IPRateLimiter) limiterForIP(ip string) *rate.Limiter {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) > time.Minute {
		for key, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.idleTTL {
				delete(r.entries, key)
			}
		}
		r.lastSweep = now
	}

	entry, ok := r.entries[ip]
	if !ok {
		perSecond := float64(r.requestsPerMin) / 60.0
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(perSecond), r.burst)}
		r.entries[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Clients returns the number of tracked client buckets.
func (r *IPRateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// retryAfter is the whole number of seconds until one token refills.
func (r *IPRateLimiter) retryAfter() int {
	return int(math.Ceil(60.0 / float64(r.requestsPerMin)))
}

// Middleware returns a Gin middleware that enforces the configured limit.
func (r *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !r.limiterForIP(ip).Allow() {
			c.Header("Retry-After", strconv.Itoa(r.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "rate limit exceeded",
				"code":   "RATE_LIMITED",
				"status": http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
