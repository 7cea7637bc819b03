package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/leadpop/popup-service/internal/api/metrics"
)

const limiterIdleTTL = 15 * time.Minute

// limiterStore keeps one token bucket per key with lazy eviction: idle
// entries are dropped while looking up other keys, so no background
// sweeper is needed.
type limiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	if len(s.entries) > 0 && len(s.entries)%256 == 0 {
		cutoff := now.Add(-limiterIdleTTL)
		for k, ent := range s.entries {
			if ent.lastSeen.Before(cutoff) {
				delete(s.entries, k)
			}
		}
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// RateLimit applies a per-client-IP token bucket to the public widget
// endpoints. rps <= 0 disables limiting.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := newLimiterStore(rps, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !store.get(c.RealIP(), time.Now()).Allow() {
				metrics.RateLimitedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
