// Package middleware provides the HTTP middleware of the kasir API.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/response"
)

// RateStore counts hits per key in fixed windows.
type RateStore interface {
	// Hit increments the counter for key in the window containing now and
	// returns the new count.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// ─── In-memory store ──────────────────────────────────────────────────────────

type memoryBucket struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local RateStore. Expired buckets are swept on
// access, so no goroutine is needed.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]*memoryBucket
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]*memoryBucket{}, now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.nextSweep) {
		for k, b := range s.buckets {
			if now.After(b.resetAt) {
				delete(s.buckets, k)
			}
		}
		s.nextSweep = now.Add(window)
	}

	b, ok := s.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &memoryBucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// ─── Redis store ──────────────────────────────────────────────────────────────

// RedisStore shares counters between every API process through Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	slot := time.Now().UnixNano() / int64(window)
	k := s.prefix + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("middleware: rate store: %w", err)
	}
	return incr.Val(), nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// RateLimit allows max requests per client IP per window under name. Store
// failures let the request through.
func RateLimit(store RateStore, name string, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := store.Hit(r.Context(), name+":"+ClientIP(r), window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(max) - n
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the caller's address. Forwarding headers are honoured
// only when the direct peer is listed in TRUSTED_PROXIES.
func ClientIP(r *http.Request) string {
	return clientIP(r, config.TrustedProxies())
}

func clientIP(r *http.Request, trusted []string) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return peer
}

func isTrusted(peer string, trusted []string) bool {
	ip := net.ParseIP(peer)
	if ip == nil {
		return false
	}
	for _, t := range trusted {
		if _, cidr, err := net.ParseCIDR(t); err == nil {
			if cidr.Contains(ip) {
				return true
			}
			continue
		}
		if other := net.ParseIP(t); other != nil && other.Equal(ip) {
			return true
		}
	}
	return false
}
