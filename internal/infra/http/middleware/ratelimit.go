package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a per-key fixed-window counter. It is an abuse guard, not
// a correctness mechanism: losing its state on restart is acceptable.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// NewLimiter returns a Redis-backed window when a client is provided
// (shared across instances, TTL eviction) and the in-memory fallback
// otherwise.
func NewLimiter(rdb *redis.Client, name string, limit int, window time.Duration) Limiter {
	if rdb != nil {
		return &redisLimiter{rdb: rdb, prefix: "ratelimit:" + name + ":", limit: limit, window: window}
	}
	return newMemoryLimiter(limit, window)
}

// RateLimit rejects requests over the limit with a 429 JSON body.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), ClientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "Too many requests. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP resolves the caller's address behind the usual proxy
// headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type redisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func (l *redisLimiter) Allow(ctx context.Context, key string) bool {
	redisKey := l.prefix + key

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		// Fail open: an unreachable Redis must not take the forms down.
		log.Printf("[RATELIMIT] redis error (allowing): %v", err)
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, redisKey, l.window)
	}
	return count <= int64(l.limit)
}

type memoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	l := &memoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
	go l.cleanup()
	return l
}

func (l *memoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, exists := l.visitors[key]
	if !exists {
		l.visitors[key] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > l.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= l.limit
}

func (l *memoryLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, v := range l.visitors {
			if now.Sub(v.lastReset) > l.window*2 {
				delete(l.visitors, key)
			}
		}
		l.mu.Unlock()
	}
}
