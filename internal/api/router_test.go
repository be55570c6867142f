package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const testSecret = "router-test-secret"

type fakeDecrees struct{ ports.DecreeService }

func (fakeDecrees) List(context.Context, ports.ListDecreesInput) (*ports.ListDecreesResult, error) {
	return &ports.ListDecreesResult{Items: []domain.DecreeSummary{}, Page: 1, Limit: 50}, nil
}

type fakeAssignments struct{ ports.AssignmentService }

func (fakeAssignments) ListPublished(context.Context, int, int) (*ports.AssignmentPage, error) {
	return &ports.AssignmentPage{Items: []domain.Assignment{}, Page: 1, Limit: 50}, nil
}

type fakeAuth struct{ ports.AuthService }

func (fakeAuth) CreateUser(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "u2", Email: in.Email, Role: in.Role}, nil
}

type fakeFiles struct{ ports.FileStore }

func (fakeFiles) URL(p string) string { return "/uploads/" + p }

type nopRecorder struct{}

func (nopRecorder) Enqueue(ports.ActivityInput) {}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return NewRouter(Dependencies{
		Log:         zerolog.Nop(),
		JWTSecret:   testSecret,
		Auth:        fakeAuth{},
		Decrees:     fakeDecrees{},
		Assignments: fakeAssignments{},
		Recorder:    nopRecorder{},
		Files:       fakeFiles{},
		LoginRate:   1,
		LoginBurst:  5,
		Registerer:  prometheus.NewRegistry(),
	})
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"email":   "admin@ansi.ne",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRouter_Access(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     io.Reader
		role     string
		wantCode int
	}{
		{"admin list without token", http.MethodGet, "/api/decrets", nil, "", http.StatusUnauthorized},
		{"admin list as admin", http.MethodGet, "/api/decrets", nil, domain.RoleAdmin, http.StatusOK},
		{"admin list as super admin", http.MethodGet, "/api/decrets", nil, domain.RoleSuperAdmin, http.StatusOK},
		{"admin list with unknown role", http.MethodGet, "/api/decrets", nil, "VIEWER", http.StatusForbidden},
		{"logs without token", http.MethodGet, "/api/logs", nil, "", http.StatusUnauthorized},
		{"statistics without token", http.MethodGet, "/api/statistiques", nil, "", http.StatusUnauthorized},
		{"create user as admin", http.MethodPost, "/api/users", nil, domain.RoleAdmin, http.StatusForbidden},
		{"public assignments", http.MethodGet, "/api/affectations", nil, "", http.StatusOK},
		{"download by number without numero", http.MethodGet, "/api/decrets/download-by-number", nil, "", http.StatusBadRequest},
		{"liveness", http.MethodGet, "/health", nil, "", http.StatusOK},
		{"readiness without checks", http.MethodGet, "/health/ready", nil, "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nothing", nil, "", http.StatusNotFound},
	}

	e := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, tt.body)
			if tt.role != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, tt.role))
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	e := newTestRouter(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/decrets", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected an error message, got %s", rec.Body.String())
	}
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	e := NewRouter(Dependencies{
		Log:        zerolog.Nop(),
		JWTSecret:  testSecret,
		Auth:       fakeAuth{},
		Files:      fakeFiles{},
		Recorder:   nopRecorder{},
		LoginRate:  0.001,
		LoginBurst: 1,
		Registerer: prometheus.NewRegistry(),
	})

	// Rotating X-Forwarded-For must not earn a fresh bucket when no proxy
	// is trusted.
	codes := make([]int, 0, 2)
	for i := range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("192.0.2.%d", i+10))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] == http.StatusTooManyRequests {
		t.Fatalf("first attempt should not be throttled")
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second attempt, got %d", codes[1])
	}
}

func TestIPExtractor(t *testing.T) {
	_, lb, _ := net.ParseCIDR("10.20.0.0/16")
	tests := []struct {
		name    string
		trusted []*net.IPNet
		remote  string
		xff     string
		want    string
	}{
		{"direct ignores header", nil, "203.0.113.7:5555", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy forwards client", []*net.IPNet{lb}, "10.20.1.1:80", "198.51.100.1", "198.51.100.1"},
		{"untrusted peer is the client", []*net.IPNet{lb}, "192.168.1.5:80", "198.51.100.1", "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", tt.xff)
			if got := ipExtractor(tt.trusted)(req); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	if got := bodyLimit(0); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
	if got := bodyLimit(10 << 20); got != "21504K" {
		t.Fatalf("unexpected limit %q", got)
	}
}

func TestStaticPrefix(t *testing.T) {
	tests := map[string]string{
		"/uploads":                      "/uploads",
		"/uploads/":                     "/uploads",
		"https://cdn.example.org/files": "/files",
		"https://files.example.org":     "",
		"":                              "",
	}
	for in, want := range tests {
		if got := staticPrefix(in); got != want {
			t.Fatalf("staticPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
