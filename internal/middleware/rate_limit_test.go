package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for limiter tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*ShardedRateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewShardedRateLimiter("test", rate, window, 4)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{name: "custom shard count", numShards: 8, wantShards: 8},
		{name: "zero falls back to default", numShards: 0, wantShards: defaultNumShards},
		{name: "negative falls back to default", numShards: -1, wantShards: defaultNumShards},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter("test", 10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Len(t, rl.shards, tt.wantShards)
			assert.Equal(t, "test", rl.name)
			assert.Equal(t, 10, rl.rate)
		})
	}
}

func TestShardedRateLimiter_Take(t *testing.T) {
	rl, clock := newTestLimiter(t, 3, time.Minute)

	for want := 2; want >= 0; want-- {
		allowed, remaining, resetIn := rl.take("caller")
		require.True(t, allowed)
		assert.Equal(t, want, remaining)
		assert.Equal(t, time.Minute, resetIn)
	}

	clock.Advance(20 * time.Second)
	allowed, remaining, resetIn := rl.take("caller")
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.Equal(t, 40*time.Second, resetIn)

	allowed, _, _ = rl.take("other")
	assert.True(t, allowed, "callers have separate windows")

	clock.Advance(40 * time.Second)
	allowed, remaining, _ = rl.take("caller")
	assert.True(t, allowed, "window resets")
	assert.Equal(t, 2, remaining)
}

func TestShardedRateLimiter_RateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		rate         int
		requests     int
		wantOKCount  int
		want429Count int
	}{
		{name: "all requests pass", rate: 5, requests: 3, wantOKCount: 3},
		{name: "excess requests blocked", rate: 3, requests: 5, wantOKCount: 3, want429Count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.rate, time.Minute)

			router := gin.New()
			router.Use(RequestID(), rl.RateLimit())
			router.GET("/api/content", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			var okCount, blockedCount int
			for i := 0; i < tt.requests; i++ {
				req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
				req.RemoteAddr = "192.168.1.1:12345"
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					okCount++
				case http.StatusTooManyRequests:
					blockedCount++
					assert.Equal(t, "60", w.Header().Get("Retry-After"))
					assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
				}
			}

			assert.Equal(t, tt.wantOKCount, okCount)
			assert.Equal(t, tt.want429Count, blockedCount)
		})
	}
}

func TestShardedRateLimiter_APIKeyRateLimit_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, clock := newTestLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(rl.APIKeyRateLimit())
	router.POST("/api/content", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("key-a").Code)
	clock.Advance(15 * time.Second)
	assert.Equal(t, http.StatusOK, send("key-a").Code)

	blocked := send("key-a")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "45", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("key-b").Code)
	assert.Equal(t, http.StatusOK, send("").Code)
}

func TestAPIKeyIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	identify := func(key string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/content", nil)
		c.Request.RemoteAddr = "192.168.1.1:12345"
		if key != "" {
			c.Request.Header.Set(APIKeyHeader, key)
		}
		return apiKeyIdentifier(c)
	}

	assert.Equal(t, "ip:192.168.1.1", identify(""))

	id := identify("secret")
	assert.Regexp(t, `^key:[0-9a-f]{16}$`, id)
	assert.NotContains(t, id, "secret")
	assert.Equal(t, id, identify("secret"))
	assert.NotEqual(t, id, identify("other"))
}

func TestShardedRateLimiter_Headers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(t, 15, time.Minute)

	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/api/content", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	assert.Equal(t, "15", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "14", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))
}

func TestShardedRateLimiter_EvictExpired(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, time.Minute)

	for i := 0; i < 20; i++ {
		rl.take(fmt.Sprintf("caller-%d", i))
	}
	total, perShard := rl.Stats()
	assert.Equal(t, 20, total)
	assert.Len(t, perShard, 4)

	clock.Advance(30 * time.Second)
	rl.take("late")
	clock.Advance(30 * time.Second)
	rl.evictExpired()

	total, _ = rl.Stats()
	assert.Equal(t, 1, total, "only the window opened later survives")
}

func TestShardedRateLimiter_Concurrent(t *testing.T) {
	rl, _ := newTestLimiter(t, 100, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.take("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestShardedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewShardedRateLimiter("test", 1, time.Minute, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
