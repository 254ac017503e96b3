package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeReady struct {
	ok  bool
	msg string
}

func (f fakeReady) CheckReady(ctx context.Context) (bool, string) { return f.ok, f.msg }

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(fakeReady{ok: true}, nil, "")

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, attendu 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("réponse illisible : %v", err)
	}
	if resp["status"] != "ok" || resp["service"] != "dashboard-module" {
		t.Errorf("réponse = %v", resp)
	}
}

func TestHealthReadyPostgresEnPanne(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	h := NewHealthHandler(fakeReady{ok: false, msg: "pool épuisé"}, nil, backend.URL)

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, attendu 503", rec.Code)
	}
	var resp healthReadyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("réponse illisible : %v", err)
	}
	if resp.Status != "fail" {
		t.Errorf("status = %q, attendu fail", resp.Status)
	}
	if resp.Checks.PostgreSQL.Status != "fail" || resp.Checks.PostgreSQL.Message != "pool épuisé" {
		t.Errorf("check postgresql = %+v", resp.Checks.PostgreSQL)
	}
}

func TestCheckBackend(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus string
	}{
		{"backend sain", http.StatusOK, "ok"},
		{"backend en erreur serveur", http.StatusInternalServerError, "degraded"},
		{"backend en erreur client reste ok", http.StatusNotFound, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer backend.Close()

			h := NewHealthHandler(fakeReady{ok: true}, nil, backend.URL)
			if got := h.checkBackend(context.Background()); got.Status != tt.wantStatus {
				t.Errorf("status = %q, attendu %q", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestCheckBackendInjoignable(t *testing.T) {
	h := NewHealthHandler(fakeReady{ok: true}, nil, "http://127.0.0.1:1")
	if got := h.checkBackend(context.Background()); got.Status != "degraded" {
		t.Errorf("status = %q, attendu degraded : le dashboard sert l'état en mémoire", got.Status)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"tout ok", []string{"ok", "ok", "ok"}, "ok"},
		{"degraded sans fail", []string{"ok", "degraded", "ok"}, "degraded"},
		{"fail l'emporte", []string{"fail", "degraded", "ok"}, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallStatus(tt.statuses...); got != tt.want {
				t.Errorf("overallStatus = %q, attendu %q", got, tt.want)
			}
		})
	}
}
