package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "u1",
		"email":   "admin@ansi.ne",
		"role":    "ADMIN",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	for _, prefix := range []string{"Bearer ", "bearer ", ""} {
		e := echo.New()
		signed := signToken(t, "secret", adminClaims())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", prefix+signed)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		called := false
		handler := Auth("secret")(func(c echo.Context) error {
			called = true
			if c.Get(CtxUserID) != "u1" {
				t.Fatalf("user_id not set")
			}
			if c.Get(CtxEmail) != "admin@ansi.ne" {
				t.Fatalf("email not set")
			}
			if c.Get(CtxRole) != "ADMIN" {
				t.Fatalf("role not set")
			}
			return c.NoContent(http.StatusOK)
		})

		if err := handler(c); err != nil {
			t.Fatalf("%q: handler error: %v", prefix, err)
		}
		if !called {
			t.Fatalf("%q: next not called", prefix)
		}
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := adminClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"invalid format", "Token abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signToken(t, "other", adminClaims())},
		{"expired", "Bearer " + signToken(t, "secret", expired)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := Auth("secret")(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()

	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	anonymous.Header.Set("Authorization", "Bearer broken")
	c := e.NewContext(anonymous, httptest.NewRecorder())
	err := OptionalAuth("secret")(func(c echo.Context) error {
		if c.Get(CtxRole) != nil {
			t.Fatalf("expected no role for an invalid token")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	authed := httptest.NewRequest(http.MethodGet, "/", nil)
	authed.Header.Set("Authorization", "Bearer "+signToken(t, "secret", adminClaims()))
	c = e.NewContext(authed, httptest.NewRecorder())
	err = OptionalAuth("secret")(func(c echo.Context) error {
		if c.Get(CtxRole) != "ADMIN" {
			t.Fatalf("expected ADMIN role, got %v", c.Get(CtxRole))
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
