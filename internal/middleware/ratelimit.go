// ratelimit.go implements per-IP fixed-window rate limiting for the login
// and contact endpoints. Counters live in Redis when it is configured so all
// replicas share them, and in process memory otherwise.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/showcase/internal/apperror"
)

// Limiter counts hits per key within a window.
type Limiter interface {
	// Allow records one hit for key and reports whether it is within max
	// hits for the current window.
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// RateLimit returns middleware that limits requests per client IP to max
// within window. scope separates the counters of different endpoints.
// Limiter failures let the request through: an unavailable Redis must not
// lock the admin out.
func RateLimit(l Limiter, scope string, max int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":" + c.RealIP()

			ok, err := l.Allow(c.Request().Context(), key, max, window)
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("scope", scope),
					slog.Any("error", err),
				)
				return next(c)
			}
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return apperror.NewTooManyRequests()
			}
			return next(c)
		}
	}
}

// --- Redis ---

// redisKeyPrefix namespaces rate-limit counters in the shared Redis.
const redisKeyPrefix = "ratelimit:"

// RedisLimiter keeps counters in Redis. Each hit runs SET NX PX, INCR and
// PTTL in one MULTI, so a new counter is never left without an expiry.
type RedisLimiter struct {
	rdb *redis.Client
}

// NewRedisLimiter creates a limiter backed by rdb.
func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

// Allow implements Limiter.
func (r *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	k := redisKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, window)
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("incrementing rate limit counter: %w", err)
	}

	// A counter without expiry would block the key for good.
	if ttl.Val() < 0 {
		if err := r.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("setting rate limit window: %w", err)
		}
	}

	return incr.Val() <= int64(max), nil
}

// --- Memory ---

// rateLimitEntry tracks request counts for a single key within a window.
type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter keeps counters in process memory. Used when Redis is not
// configured (single instance, development).
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow implements Limiter. Never fails.
func (m *MemoryLimiter) Allow(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now, window)

	entry, exists := m.entries[key]
	if !exists || now.Sub(entry.windowStart) >= window {
		m.entries[key] = &rateLimitEntry{count: 1, windowStart: now}
		return max >= 1, nil
	}

	entry.count++
	return entry.count <= max, nil
}

// sweep drops expired entries at most once per window. Caller holds mu.
func (m *MemoryLimiter) sweep(now time.Time, window time.Duration) {
	if now.Sub(m.lastSweep) < window {
		return
	}
	m.lastSweep = now
	for k, e := range m.entries {
		if now.Sub(e.windowStart) >= window {
			delete(m.entries, k)
		}
	}
}
