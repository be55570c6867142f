package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"forwarded wins", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.2"}, "203.0.113.7"},
		{"none", nil, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIPRateLimiterPerClient(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("expected the burst to be allowed")
	}
	if l.Allow("a") {
		t.Fatal("expected the third request to be throttled")
	}
	if !l.Allow("b") {
		t.Fatal("expected another client to be unaffected")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("expected a token after one second")
	}

	now = now.Add(limiterIdleTTL + time.Second)
	l.Allow("c")
	if _, ok := l.visitors["b"]; ok {
		t.Fatal("expected idle visitor to be evicted")
	}
}

func serveThrottled(e *echo.Echo, h echo.HandlerFunc, remoteAddr, xff string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()
	l := NewIPRateLimiter(0.001, 1)
	handler := RateLimit(l)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		if got := serveThrottled(e, handler, "203.0.113.9:4000", ""); got != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()
	l := NewIPRateLimiter(0.001, 2)
	handler := RateLimit(l)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	accepted := 0
	for i := range 50 {
		if serveThrottled(e, handler, "203.0.113.7:5555", fmt.Sprintf("10.0.0.%d", i)) == http.StatusOK {
			accepted++
		}
	}
	if accepted != 2 {
		t.Fatalf("expected only the burst of 2 to pass, got %d", accepted)
	}
	if len(l.visitors) != 1 {
		t.Fatalf("expected a single tracked client, got %d", len(l.visitors))
	}
}

func TestRateLimitTrustedProxyForwardsClient(t *testing.T) {
	_, proxies, _ := net.ParseCIDR("10.1.0.0/16")
	e := echo.New()
	e.IPExtractor = echo.ExtractIPFromXFFHeader(echo.TrustIPRange(proxies))
	l := NewIPRateLimiter(0.001, 1)
	handler := RateLimit(l)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if got := serveThrottled(e, handler, "10.1.2.3:80", "198.51.100.20"); got != http.StatusOK {
		t.Fatalf("expected first client to pass, got %d", got)
	}
	if got := serveThrottled(e, handler, "10.1.2.3:80", "198.51.100.21"); got != http.StatusOK {
		t.Fatalf("expected a different client behind the proxy to pass, got %d", got)
	}
	if got := serveThrottled(e, handler, "10.1.2.3:80", "198.51.100.20"); got != http.StatusTooManyRequests {
		t.Fatalf("expected repeat client to be throttled, got %d", got)
	}
}

func TestIPRateLimiterSweepsAtMostOncePerTTL(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	swept := l.lastSweep
	now = now.Add(time.Minute)
	l.Allow("b")
	if !l.lastSweep.Equal(swept) {
		t.Fatal("expected no sweep before the idle TTL elapses")
	}
}
