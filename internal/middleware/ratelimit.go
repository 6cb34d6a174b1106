// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter counts hits per key in fixed windows. Hit records one
// attempt and returns the count in the current window and the time left
// until the window resets.
type AttemptCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

// LoginLimiter caps login and verification attempts per client IP. With a
// Valkey counter the limit is shared by every editor process.
type LoginLimiter struct {
	attempts AttemptCounter
	limit    int
	window   time.Duration
}

// NewLoginLimiter allows limit attempts per client in each window.
func NewLoginLimiter(attempts AttemptCounter, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{attempts: attempts, limit: limit, window: window}
}

// Middleware rejects clients over the limit with a JSON 429 and a
// Retry-After header. Counter errors let the request through.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, retry, err := l.attempts.Hit(r.Context(), "login:"+clientIP(r), l.window)
		if err != nil {
			slog.Warn("login attempt counter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n > l.limit {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retry)))
			WriteError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// pruneAt is the number of tracked keys above which expired windows are
// dropped on the next hit.
const pruneAt = 1024

type attemptWindow struct {
	count int
	reset time.Time
}

// MemoryAttempts is an in-process AttemptCounter.
type MemoryAttempts struct {
	mu      sync.Mutex
	windows map[string]attemptWindow
	now     func() time.Time
}

func NewMemoryAttempts() *MemoryAttempts {
	return &MemoryAttempts{windows: make(map[string]attemptWindow), now: time.Now}
}

func (m *MemoryAttempts) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.reset) {
		w = attemptWindow{reset: now.Add(window)}
	}
	w.count++
	m.windows[key] = w

	if len(m.windows) > pruneAt {
		for k, v := range m.windows {
			if !now.Before(v.reset) {
				delete(m.windows, k)
			}
		}
	}
	return w.count, w.reset.Sub(now), nil
}

const attemptKeyPrefix = "pagesmith:attempts:"

// ValkeyAttempts counts attempts in Valkey with INCR and a window-long TTL
// set on the first hit.
type ValkeyAttempts struct {
	client *redis.Client
}

func NewValkeyAttempts(client *redis.Client) *ValkeyAttempts {
	return &ValkeyAttempts{client: client}
}

func (v *ValkeyAttempts) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	k := attemptKeyPrefix + key
	pipe := v.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("count attempt: %w", err)
	}
	left := ttl.Val()
	if left < 0 {
		left = window
	}
	return int(incr.Val()), left, nil
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
