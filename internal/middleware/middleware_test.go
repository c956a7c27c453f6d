package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/", handlers...)
	return r
}

func doRequest(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIPRateLimiterReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Second), 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestDailyQuota(t *testing.T) {
	q := NewDailyQuota(2)
	assert.True(t, q.Allow())
	assert.True(t, q.Allow())
	assert.False(t, q.Allow())
	assert.Equal(t, int64(2), q.Count())
	assert.Equal(t, int64(0), q.Remaining())
	assert.Greater(t, q.ResetIn(), time.Duration(0))
}

func TestDailyQuotaResetsAfterMidnight(t *testing.T) {
	current := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	q := NewDailyQuota(1)
	q.now = func() time.Time { return current }
	q.resetAt = nextMidnightPT(current)

	assert.True(t, q.Allow())
	assert.False(t, q.Allow())

	current = current.Add(25 * time.Hour)
	assert.True(t, q.Allow())
	assert.Equal(t, int64(1), q.Count())
}

func TestNextMidnightPT(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	from := time.Date(2026, 7, 1, 15, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 7, 2, 0, 0, 0, 0, loc), nextMidnightPT(from))
}

func TestRateLimitMiddlewarePerIP(t *testing.T) {
	r := newRouter(RateLimitMiddleware(NewIPRateLimiter(rate.Every(time.Minute), 1), NewDailyQuota(100)))

	assert.Equal(t, http.StatusNoContent, doRequest(r, "10.0.0.1:1234").Code)

	w := doRequest(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusNoContent, doRequest(r, "10.0.0.2:1234").Code)
}

func TestRateLimitMiddlewareDailyQuota(t *testing.T) {
	r := newRouter(RateLimitMiddleware(NewIPRateLimiter(rate.Inf, 1), NewDailyQuota(1)))

	assert.Equal(t, http.StatusNoContent, doRequest(r, "10.0.0.1:1234").Code)

	w := doRequest(r, "10.0.0.2:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "DAILY_QUOTA_EXCEEDED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareIPRejectionKeepsQuota(t *testing.T) {
	quota := NewDailyQuota(5)
	r := newRouter(RateLimitMiddleware(NewIPRateLimiter(rate.Every(time.Minute), 1), quota))

	served := 0
	for range 5 {
		if doRequest(r, "10.0.0.1:1234").Code == http.StatusNoContent {
			served++
		}
	}
	assert.Equal(t, 1, served)
	assert.Equal(t, int64(1), quota.Count())

	assert.Equal(t, http.StatusNoContent, doRequest(r, "10.0.0.2:1234").Code)
	assert.Equal(t, int64(2), quota.Count())
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())

	w := doRequest(r, "10.0.0.1:1234")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}
