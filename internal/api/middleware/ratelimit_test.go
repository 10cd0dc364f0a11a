package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLimitedEcho(rps float64, burst int) *echo.Echo {
	e := echo.New()
	e.Use(RateLimiterWithConfig(rps, burst, nil))
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestRateLimiter_WithinLimit(t *testing.T) {
	e := newLimitedEcho(10, 20)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_ExceedsLimit(t *testing.T) {
	e := newLimitedEcho(1, 1)

	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec1.Code)

	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestRateLimiter_RetryAfterHeader(t *testing.T) {
	e := newLimitedEcho(1, 1)

	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/test", nil))

	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "60", rec2.Header().Get("Retry-After"))
}

func TestRateLimiter_BurstAllowed(t *testing.T) {
	e := newLimitedEcho(1, 5)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be within burst", i+1)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_PerUserIsolation(t *testing.T) {
	e := newLimitedEcho(1, 1)

	asUser := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-User-ID", id)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	// Two users behind the same IP each get their own budget
	assert.Equal(t, http.StatusOK, asUser("7").Code)
	assert.Equal(t, http.StatusOK, asUser("8").Code)

	// The first user's budget is spent
	assert.Equal(t, http.StatusTooManyRequests, asUser("7").Code)
}

func TestRateLimiter_PerIPIsolationForAnonymous(t *testing.T) {
	e := newLimitedEcho(1, 1)

	asIP := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, asIP("192.168.1.1").Code)
	assert.Equal(t, http.StatusOK, asIP("192.168.1.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, asIP("192.168.1.1").Code)
}

func TestClientRateLimiter_Limiter(t *testing.T) {
	pool := NewClientRateLimiter(10, 20)

	l1 := pool.Limiter("user:7")
	assert.NotNil(t, l1)

	// Same key returns the same bucket
	assert.Same(t, l1, pool.Limiter("user:7"))

	// Different key gets its own bucket
	assert.NotSame(t, l1, pool.Limiter("ip:192.168.1.1"))
}

func TestClientRateLimiter_Evict(t *testing.T) {
	pool := NewClientRateLimiter(10, 20)

	stale := pool.Limiter("user:7")
	pool.visitors["user:7"].lastSeen = time.Now().Add(-time.Hour)
	fresh := pool.Limiter("user:8")

	pool.Evict(30 * time.Minute)

	assert.NotSame(t, stale, pool.Limiter("user:7"), "idle bucket should have been dropped")
	assert.Same(t, fresh, pool.Limiter("user:8"), "active bucket should survive eviction")
}
