package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	maxVisitors = 10000
	visitorIdle = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	b        int
	now      func() time.Time
}

// NewIPRateLimiter creates a limiter allowing r requests per second with burst b per address.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
		now:      time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= maxVisitors {
			l.forget(visitorIdle)
		}
		v = &visitor{limiter: rate.NewLimiter(l.r, l.b)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Forget drops addresses idle for longer than idle and returns how many were removed.
func (l *IPRateLimiter) Forget(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.forget(idle)
}

func (l *IPRateLimiter) forget(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	n := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			n++
		}
	}
	return n
}

// RateLimiter rejects requests over the per-address budget with 429. When
// ipHeader is set (e.g. "X-Real-IP" behind a proxy) the address is read from
// it, falling back to gin's ClientIP.
func RateLimiter(limiter *IPRateLimiter, ipHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ipHeader != "" {
			if v := c.GetHeader(ipHeader); v != "" {
				ip = v
			}
		}
		if !limiter.Allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
