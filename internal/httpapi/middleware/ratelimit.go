package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter hands out one token-bucket limiter per client IP.
// Entries are never evicted; the map is bounded by the client
// population of a load test run.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (cl *clientLimiter) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	limiter, ok := cl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(cl.limit, cl.burst)
		cl.limiters[ip] = limiter
	}
	return limiter
}

// LoginRateLimiter throttles credential checks per client IP.
// 5 attempts/sec with a burst of 10.
func LoginRateLimiter() gin.HandlerFunc {
	cl := newClientLimiter(rate.Limit(5), 10)
	return RateLimiter(cl)
}

func RateLimiter(cl *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
