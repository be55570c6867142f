package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

func TestHTTPErrorHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: missing pdf", domain.ErrInvalidUpload), http.StatusBadRequest},
		{fmt.Errorf("%w: bad status", domain.ErrInvalidFilter), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get: %w", domain.ErrDecreeNotFound), http.StatusNotFound},
		{domain.ErrNoPDF, http.StatusNotFound},
		{domain.ErrFileNotFound, http.StatusNotFound},
		{domain.ErrDuplicateDecree, http.StatusConflict},
		{domain.ErrImportInProgress, http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{fmt.Errorf("%w: BROUILLON to ARCHIVE", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		h(tt.err, c)

		if rec.Code != tt.code {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.code, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Errorf("%v: expected an error envelope, got %s", tt.err, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandlerHidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: password=hunter2"), c)

	if rec.Body.String() != "{\"error\":\"internal server error\"}\n" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestHTTPErrorHandlerRosterErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/decrets/import", nil), rec)

	rowErrs := []roster.RowError{
		{Row: 3, Field: "birth_date", Message: "invalid date"},
		{Row: 4, Field: "last_name", Message: "required field missing"},
	}
	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("import: %w", &roster.ValidationError{Errors: rowErrs}), c)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var body rosterErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if diff := cmp.Diff(rowErrs, body.Errors); diff != "" {
		t.Fatalf("row errors mismatch (-want +got):\n%s", diff)
	}
	if body.Data == nil || len(body.Data) != 0 {
		t.Fatalf("expected an empty data array, got %v", body.Data)
	}
}
