package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryAttemptsWindows(t *testing.T) {
	m := NewMemoryAttempts()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, left, _ := m.Hit(ctx, "ip", time.Minute)
		if n != i || left != time.Minute {
			t.Fatalf("hit %d = %d, %v", i, n, left)
		}
	}
	if n, _, _ := m.Hit(ctx, "other", time.Minute); n != 1 {
		t.Errorf("other key count = %d, want 1", n)
	}

	now = now.Add(40 * time.Second)
	if n, left, _ := m.Hit(ctx, "ip", time.Minute); n != 4 || left != 20*time.Second {
		t.Errorf("same window = %d, %v", n, left)
	}

	now = now.Add(20 * time.Second)
	if n, _, _ := m.Hit(ctx, "ip", time.Minute); n != 1 {
		t.Errorf("count after reset = %d, want 1", n)
	}
}

func TestMemoryAttemptsPrunesExpired(t *testing.T) {
	m := NewMemoryAttempts()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < pruneAt; i++ {
		m.Hit(ctx, fmt.Sprintf("ip-%d", i), time.Second)
	}
	now = now.Add(time.Minute)
	m.Hit(ctx, "fresh", time.Second)
	m.Hit(ctx, "fresh-2", time.Second)

	if len(m.windows) != 2 {
		t.Errorf("tracked keys = %d, want 2", len(m.windows))
	}
}

func TestLoginLimiterMiddleware(t *testing.T) {
	attempts := NewMemoryAttempts()
	handler := NewLoginLimiter(attempts, 2, time.Second).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send("192.168.1.1:12345"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	rr := send("192.168.1.1:54321")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want JSON", ct)
	}

	if rr := send("10.0.0.9:1"); rr.Code != http.StatusOK {
		t.Errorf("other client got %d, want 200", rr.Code)
	}
	if _, ok := attempts.windows["login:192.168.1.1"]; !ok {
		t.Error("attempts should be keyed by client IP")
	}
}

type failingAttempts struct{}

func (failingAttempts) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("connection refused")
}

func TestLoginLimiterCounterDown(t *testing.T) {
	handler := NewLoginLimiter(failingAttempts{}, 1, time.Second).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rr.Code)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{300 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{time.Minute, 60},
	}
	for _, tt := range tests {
		if got := retryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValkeyAttempts(t *testing.T) {
	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	key := "login:test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		client.Del(ctx, attemptKeyPrefix+key)
		client.Close()
	})

	v := NewValkeyAttempts(client)
	for i := 1; i <= 3; i++ {
		n, left, err := v.Hit(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("Hit: %v", err)
		}
		if n != i {
			t.Errorf("hit %d counted %d", i, n)
		}
		if left <= 0 || left > time.Minute {
			t.Errorf("window left = %v", left)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "10.0.0.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for multiple",
			xff:        "10.0.0.1, 172.16.0.1, 192.168.1.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			xri:        "10.0.0.2",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			got := clientIP(req)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

