package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hotelpms/internal/middleware"
)

func rateLimitedRouter(l *middleware.TenantRateLimiter, tenantID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyTenantID, tenantID)
		c.Next()
	})
	r.Use(middleware.RateLimit(l))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTenantRateLimiter_BurstThenReject(t *testing.T) {
	l := middleware.NewTenantRateLimiter(0.001, 2)

	assert.True(t, l.Allow("tenant-a"))
	assert.True(t, l.Allow("tenant-a"))
	assert.False(t, l.Allow("tenant-a"))

	// Buckets are independent per tenant.
	assert.True(t, l.Allow("tenant-b"))
}

func TestTenantRateLimiter_Disabled(t *testing.T) {
	l := middleware.NewTenantRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("tenant"))
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	l := middleware.NewTenantRateLimiter(0.001, 1)
	r := rateLimitedRouter(l, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimit_RequiresTenant(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimit(middleware.NewTenantRateLimiter(10, 10)))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
