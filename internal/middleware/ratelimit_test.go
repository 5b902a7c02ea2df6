package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/showcase/internal/apperror"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func TestRedisLimiter_WindowAndExpiry(t *testing.T) {
	rdb, mr := newTestRedis(t)
	l := NewRedisLimiter(rdb)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := l.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("hit %d: unexpected error: %v", i, err)
		}
		if !ok {
			t.Fatalf("hit %d: expected allowed", i)
		}
	}
	if ok, _ := l.Allow(ctx, "login:1.2.3.4", 3, time.Minute); ok {
		t.Fatal("expected 4th hit to be limited")
	}
	if ok, _ := l.Allow(ctx, "login:5.6.7.8", 3, time.Minute); !ok {
		t.Fatal("other IPs must have their own counter")
	}

	if ttl := mr.TTL(redisKeyPrefix + "login:1.2.3.4"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected TTL within the window, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := l.Allow(ctx, "login:1.2.3.4", 3, time.Minute); !ok {
		t.Fatal("expected counter to reset after the window")
	}
}

func TestRedisLimiter_CounterWithoutExpiryIsRepaired(t *testing.T) {
	rdb, mr := newTestRedis(t)
	k := redisKeyPrefix + "login:1.2.3.4"
	if err := mr.Set(k, "50"); err != nil {
		t.Fatal(err)
	}

	ok, err := NewRedisLimiter(rdb).Allow(context.Background(), "login:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected the stale counter to still limit")
	}
	if ttl := mr.TTL(k); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected the counter to get a window, got TTL %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := NewRedisLimiter(rdb).Allow(context.Background(), "login:1.2.3.4", 3, time.Minute); !ok {
		t.Error("expected the key to recover after the window")
	}
}

func TestRedisLimiter_FailureLeavesNoCounter(t *testing.T) {
	rdb, mr := newTestRedis(t)
	mr.SetError("LOADING Redis is loading the dataset in memory")

	if _, err := NewRedisLimiter(rdb).Allow(context.Background(), "login:1.2.3.4", 3, time.Minute); err == nil {
		t.Fatal("expected error")
	}
	mr.SetError("")
	if mr.Exists(redisKeyPrefix + "login:1.2.3.4") {
		t.Error("a failed hit must not leave a counter behind")
	}
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	rdb, mr := newTestRedis(t)
	mr.Close()

	if _, err := NewRedisLimiter(rdb).Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestMemoryLimiter_Window(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "k", 2, time.Minute); !ok {
			t.Fatalf("hit %d: expected allowed", i+1)
		}
	}
	if ok, _ := l.Allow(ctx, "k", 2, time.Minute); ok {
		t.Fatal("expected 3rd hit to be limited")
	}

	now = now.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "k", 2, time.Minute); !ok {
		t.Fatal("expected a new window")
	}
}

// failingLimiter always errors.
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("boom")
}

func TestRateLimit_Middleware(t *testing.T) {
	cases := []struct {
		name    string
		limiter Limiter
		hits    int
		want    int
	}{
		{"under limit", NewMemoryLimiter(), 2, http.StatusOK},
		{"over limit", NewMemoryLimiter(), 3, http.StatusTooManyRequests},
		{"limiter down fails open", failingLimiter{}, 5, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = func(err error, c echo.Context) {
				_ = c.NoContent(apperror.SafeCode(err))
			}
			e.POST("/api/contact", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}, RateLimit(tc.limiter, "contact", 2, time.Minute))

			var rec *httptest.ResponseRecorder
			for i := 0; i < tc.hits; i++ {
				rec = httptest.NewRecorder()
				e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
			}
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "60" {
				t.Errorf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
		})
	}
}
