package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

func TestActivityHandler_Create(t *testing.T) {
	e := newTestEcho()
	rec := &recorder{}
	handler := NewActivityHandler(&stubActivityService{}, rec)

	req := jsonRequest(http.MethodPost, "/api/logs",
		`{"action":"recherche","description":"Recherche Diallo","metadonnees":{"query":"Diallo"}}`)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone) Mobile Safari/604.1")

	w := httptest.NewRecorder()
	if err := handler.Create(e.NewContext(req, w)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	got := rec.last()
	if got.Action != domain.ActionSearch {
		t.Fatalf("expected RECHERCHE, got %q", got.Action)
	}
	if got.IPAddress != "198.51.100.7" {
		t.Fatalf("expected first forwarded hop, got %q", got.IPAddress)
	}
	if got.Metadata["query"] != "Diallo" {
		t.Fatalf("unexpected metadata %+v", got.Metadata)
	}
	if got.UserAgent == "" {
		t.Fatal("expected user agent to be captured")
	}
}

func TestActivityHandler_CreateRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown action", `{"action":"HACK"}`},
		{"missing action", `{"description":"x"}`},
		{"malformed", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			rec := &recorder{}
			handler := NewActivityHandler(&stubActivityService{}, rec)

			c := e.NewContext(jsonRequest(http.MethodPost, "/api/logs", tt.body), httptest.NewRecorder())
			if code := httpStatus(t, handler.Create(c)); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
			if len(rec.entries) != 0 {
				t.Fatal("nothing should be enqueued")
			}
		})
	}
}

func TestActivityHandler_List(t *testing.T) {
	e := newTestEcho()
	svc := &stubActivityService{
		listFn: func(ctx context.Context, action string, limit int) ([]domain.ActivityLog, error) {
			if action != "IMPORT" || limit != 20 {
				t.Fatalf("unexpected args %q %d", action, limit)
			}
			return []domain.ActivityLog{{ID: "l1", Action: domain.ActionImport}}, nil
		},
	}
	handler := NewActivityHandler(svc, &recorder{})

	w := httptest.NewRecorder()
	if err := handler.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/logs?action=IMPORT&limit=20", nil), w)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Logs []map[string]any `json:"logs"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Logs) != 1 {
		t.Fatalf("unexpected payload %s", w.Body.String())
	}
}
