package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T, maxPerWindow int, window time.Duration) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)}
	limiter := New(&Config{MaxPerWindow: maxPerWindow, Window: window, Clock: clock})
	t.Cleanup(limiter.Close)
	return limiter, clock
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if result := limiter.Allow("203.0.113.7"); !result.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	result := limiter.Allow("203.0.113.7")
	if result.Allowed {
		t.Fatalf("fourth request allowed, want denied")
	}
	if result.RetryAfter <= 0 || result.RetryAfter > time.Minute {
		t.Fatalf("retry after: %v", result.RetryAfter)
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	limiter, clock := newTestLimiter(t, 1, time.Minute)

	if result := limiter.Allow("203.0.113.7"); !result.Allowed {
		t.Fatalf("first request denied")
	}
	if result := limiter.Allow("203.0.113.7"); result.Allowed {
		t.Fatalf("second request allowed inside window")
	}

	clock.advance(time.Minute)
	if result := limiter.Allow("203.0.113.7"); !result.Allowed {
		t.Fatalf("request denied after window reset")
	}
}

func TestLimiter_TracksIPsIndependently(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if result := limiter.Allow("203.0.113.7"); !result.Allowed {
		t.Fatalf("first IP denied")
	}
	if result := limiter.Allow("198.51.100.9"); !result.Allowed {
		t.Fatalf("second IP denied, limits should be per-IP")
	}
}

func TestMiddleware_Returns429WithRetryAfter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	var hits int
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/schedule", nil)
	req.RemoteAddr = "203.0.113.7:52814"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK || hits != 1 {
		t.Fatalf("first request: status %d, hits %d", first.Code, hits)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After header missing")
	}
	if hits != 1 {
		t.Fatalf("over-limit request reached handler")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct_connection",
			remoteAddr: "203.0.113.7:52814",
			want:       "203.0.113.7",
		},
		{
			name:       "untrusted_proxy_ignores_xff",
			remoteAddr: "10.0.0.2:40000",
			xff:        "203.0.113.7",
			want:       "10.0.0.2",
		},
		{
			name:       "trusted_proxy_uses_rightmost_public",
			remoteAddr: "10.0.0.2:40000",
			xff:        "198.51.100.9, 203.0.113.7, 10.0.0.1",
			trustProxy: true,
			want:       "203.0.113.7",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = test.remoteAddr
			if test.xff != "" {
				req.Header.Set("X-Forwarded-For", test.xff)
			}
			if got := GetClientIP(req, test.trustProxy); got != test.want {
				t.Fatalf("GetClientIP = %s, want %s", got, test.want)
			}
		})
	}
}
