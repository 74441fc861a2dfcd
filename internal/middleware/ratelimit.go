package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/pkg/response"
	"golang.org/x/time/rate"
)

const minIdleTTL = 5 * time.Minute

// ipLimiter holds a rate limiter and last-seen time per IP.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration

	title   string
	message string
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second with
// bursts of up to burst requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL(rps, burst),
		title:    "Too many requests",
		message:  "Please try again later",
	}
	go rl.cleanup()
	return rl
}

// NewWindowLimiter allows cfg.Max requests per cfg.WindowMinutes, with the
// whole allowance available as a burst.
func NewWindowLimiter(cfg config.LimiterConfig, title, message string) *RateLimiter {
	rl := NewRateLimiter(cfg.PerSecond(), cfg.Max)
	rl.title = title
	rl.message = message
	return rl
}

// idleTTL is how long an entry must be idle before its bucket is certainly
// full again, so dropping it does not reset a client early.
func idleTTL(rps float64, burst int) time.Duration {
	if rps <= 0 {
		return minIdleTTL
	}
	refill := time.Duration(float64(burst) / rps * float64(time.Second))
	if refill < minIdleTTL {
		return minIdleTTL
	}
	return refill
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[ip] = &ipLimiter{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.evictIdle(time.Now())
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.limiters, ip)
		}
	}
}

// Middleware returns a Gin middleware that enforces IP-based rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			response.TooManyRequests(c, rl.title, rl.message)
			c.Abort()
			return
		}
		c.Next()
	}
}
