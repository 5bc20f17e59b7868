package middleware

import (
	"net/http"
	"sync"
	"time"

	"design-studio/internal/metrics"
	"design-studio/internal/view"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorTTL = 10 * time.Minute

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimiter — token bucket на каждый IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	swept    time.Time
}

// NewRateLimiter разрешает perMinute запросов в минуту с одного адреса.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		visitors: map[string]*limiterEntry{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		swept:    time.Now(),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.swept) > visitorTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.last) > visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.swept = now
	}

	le, ok := rl.visitors[key]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = le
	}
	le.last = now
	return le.limiter.Allow()
}

// Handler ограничивает частоту запросов по IP клиента.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.RateLimited(c.FullPath())
			view.Message(c, http.StatusTooManyRequests, "Слишком много запросов", "Попробуйте ещё раз через минуту")
			c.Abort()
			return
		}
		c.Next()
	}
}
