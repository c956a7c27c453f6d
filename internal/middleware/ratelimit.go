package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// DailyQuota manages the global daily analysis quota
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	now     func() time.Time
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64) *DailyQuota {
	q := &DailyQuota{
		limit: limit,
		now:   time.Now,
	}
	q.resetAt = nextMidnightPT(q.now())
	return q
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if now := q.now(); now.After(q.resetAt) {
		log.Info().Int64("previousCount", q.count).Msg("daily quota reset")
		q.count = 0
		q.resetAt = nextMidnightPT(now)
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// ResetIn returns the time left until the quota resets
func (q *DailyQuota) ResetIn() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resetAt.Sub(q.now())
}

// nextMidnightPT returns the next midnight in Pacific Time (Gemini API reset time)
func nextMidnightPT(from time.Time) time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		// Fallback to UTC if timezone not found
		loc = time.UTC
	}
	now := from.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}

// RateLimitMiddleware applies the per-IP limit first, then the global daily quota,
// so requests rejected per IP never consume the shared quota.
// Rejected requests get 429 with Retry-After in seconds.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := ipLimiter.GetLimiter(ip)
		if !limiter.Allow() {
			retryAfter := retryAfterSeconds(time.Duration(float64(time.Second) / float64(ipLimiter.rate)))
			log.Warn().Str("ip", ip).Int("retryAfter", retryAfter).Msg("rate limit exceeded")
			reject(c, retryAfter, "Too many requests. Please slow down.", "RATE_LIMITED")
			return
		}

		if !quota.Allow() {
			retryAfter := retryAfterSeconds(quota.ResetIn())
			log.Warn().Int64("count", quota.Count()).Int("retryAfter", retryAfter).Msg("daily quota exhausted")
			reject(c, retryAfter, "Daily analysis limit reached. Please try again tomorrow.", "DAILY_QUOTA_EXCEEDED")
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, retryAfter int, message, code string) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":      message,
		"code":       code,
		"retryAfter": retryAfter,
	})
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
