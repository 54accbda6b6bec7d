package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// TenantRateLimiter hands out one token bucket per tenant. Buckets idle for
// longer than limiterIdleTTL are evicted.
type TenantRateLimiter struct {
	rps     rate.Limit
	burst   int
	buckets *gocache.Cache
	mu      sync.Mutex
}

// NewTenantRateLimiter creates a limiter allowing rps requests per second per
// tenant with the given burst. rps <= 0 disables limiting.
func NewTenantRateLimiter(rps float64, burst int) *TenantRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &TenantRateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: gocache.New(limiterIdleTTL, limiterIdleTTL),
	}
}

// Allow reports whether the tenant identified by key may make a request now.
func (l *TenantRateLimiter) Allow(key string) bool {
	if l.rps <= 0 {
		return true
	}
	l.mu.Lock()
	var lim *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(l.rps, l.burst)
	}
	// Refresh the expiry on every hit so active tenants keep their bucket.
	l.buckets.SetDefault(key, lim)
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimit rejects requests over the tenant's budget with 429. It must run
// after AuthMiddleware.
func RateLimit(l *TenantRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := GetTenantID(c)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "tenant context required")
			return
		}
		if !l.Allow(tenantID.String()) {
			if l.rps > 0 {
				c.Header("Retry-After", strconv.Itoa(int(1/float64(l.rps))+1))
			}
			abortJSON(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests; slow down")
			return
		}
		c.Next()
	}
}
