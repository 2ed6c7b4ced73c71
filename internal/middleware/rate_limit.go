package middleware

import (
	"encoding/hex"
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/domain/dto"
	"github.com/guttosm/nav-service/internal/i18n"
	"github.com/guttosm/nav-service/internal/metrics"
	"github.com/zeebo/blake3"
)

const defaultNumShards = 16

// window is the fixed-window budget of one caller.
type window struct {
	remaining int
	resetAt   time.Time
}

type rateLimiterShard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// ShardedRateLimiter is a fixed-window limiter whose callers are spread
// over independently locked shards.
type ShardedRateLimiter struct {
	name     string
	shards   []*rateLimiterShard
	rate     int
	window   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter allowing rate requests per window.
// name labels its rejections in the nav_rate_limited_requests_total metric.
func NewRateLimiter(name string, rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(name, rate, window, defaultNumShards)
}

// NewShardedRateLimiter creates a limiter with a custom shard count.
func NewShardedRateLimiter(name string, rate int, windowSize time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{windows: make(map[string]*window)}
	}

	rl := &ShardedRateLimiter{
		name:   name,
		shards: shards,
		rate:   rate,
		window: windowSize,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	go rl.cleanup()
	return rl
}

func (rl *ShardedRateLimiter) shard(identifier string) *rateLimiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// take consumes one request from the caller's window. It returns the
// requests left and the time until the window resets.
func (rl *ShardedRateLimiter) take(identifier string) (allowed bool, remaining int, resetIn time.Duration) {
	s := rl.shard(identifier)
	now := rl.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &window{remaining: rl.rate, resetAt: now.Add(rl.window)}
		s.windows[identifier] = w
	}

	resetIn = w.resetAt.Sub(now)
	if w.remaining <= 0 {
		return false, 0, resetIn
	}
	w.remaining--
	return true, w.remaining, resetIn
}

// RateLimit returns a middleware that limits requests per client IP.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// APIKeyRateLimit returns a middleware that limits requests per API key.
// Requests without a key are limited per IP.
func (rl *ShardedRateLimiter) APIKeyRateLimit() gin.HandlerFunc {
	return rl.limit(apiKeyIdentifier)
}

func (rl *ShardedRateLimiter) limit(identify func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetIn := rl.take(identify(c))
		resetSeconds := strconv.Itoa(int(math.Ceil(resetIn.Seconds())))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetSeconds)

		if !allowed {
			metrics.RecordRateLimited(rl.name)
			c.Header("Retry-After", resetSeconds)
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// apiKeyIdentifier returns a digest of the API key if present, otherwise the
// client IP. Keys are hashed so the limiter never holds credentials.
func apiKeyIdentifier(c *gin.Context) string {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		sum := blake3.Sum256([]byte(key))
		return "key:" + hex.EncodeToString(sum[:8])
	}
	return "ip:" + c.ClientIP()
}

func (rl *ShardedRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ShardedRateLimiter) evictExpired() {
	now := rl.now()
	for _, s := range rl.shards {
		s.mu.Lock()
		for id, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, id)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the background eviction loop.
func (rl *ShardedRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// Stats returns the number of tracked callers, in total and per shard.
func (rl *ShardedRateLimiter) Stats() (total int, perShard []int) {
	perShard = make([]int, len(rl.shards))
	for i, s := range rl.shards {
		s.mu.Lock()
		perShard[i] = len(s.windows)
		total += perShard[i]
		s.mu.Unlock()
	}
	return total, perShard
}
