package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	m, err := auth.NewSessionManager("secret-de-test", false, testLogger())
	if err != nil {
		t.Fatalf("NewSessionManager : %v", err)
	}
	return m
}

func requestWithSession(t *testing.T, m *auth.SessionManager, data *auth.SessionData) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := m.SetSessionCookie(rec, data); err != nil {
		t.Fatalf("SetSessionCookie : %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/signalements", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func staffSession() *auth.SessionData {
	return &auth.SessionData{
		Token:     "jeton-api",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		UserID:    "u-1",
		Role:      "agent_communal",
		Commune:   "Cotonou",
	}
}

func TestRequireSessionPassesValidSession(t *testing.T) {
	m := newSessions(t)

	var gotSession *auth.SessionData
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = SessionFromContext(r.Context())
		gotToken, _ = apiclient.TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequireSession(m, testLogger())(next).ServeHTTP(rec, requestWithSession(t, m, staffSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, attendu 200", rec.Code)
	}
	if gotSession == nil || gotSession.UserID != "u-1" {
		t.Error("la session doit être dans le contexte")
	}
	if gotToken != "jeton-api" {
		t.Error("le jeton Bearer doit être propagé au client API")
	}
}

func TestRequireSessionRedirectsWithoutCookie(t *testing.T) {
	m := newSessions(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("le handler ne doit pas être appelé sans session")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	RequireSession(m, testLogger())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, attendu 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, attendu /login", loc)
	}
}

func TestRequireSessionRejectsExpiredToken(t *testing.T) {
	m := newSessions(t)
	data := staffSession()
	data.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("le handler ne doit pas être appelé avec un jeton expiré")
	})
	RequireSession(m, testLogger())(next).ServeHTTP(rec, requestWithSession(t, m, data))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, attendu 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?raison=session_expiree" {
		t.Errorf("Location = %q", loc)
	}
	// Le cookie doit être invalidé
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("le cookie de session doit être supprimé")
	}
}

func TestRequireSessionRejectsCitizenRole(t *testing.T) {
	m := newSessions(t)
	data := staffSession()
	data.Role = "citoyen"

	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("un citoyen ne doit pas accéder au dashboard")
	})
	RequireSession(m, testLogger())(next).ServeHTTP(rec, requestWithSession(t, m, data))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, attendu 303", rec.Code)
	}
}

func TestRequirePath(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		path     string
		wantCode int
		wantLoc  string
	}{
		{"agent autorisé sur signalements", "agent_communal", "/dashboard/signalements", http.StatusOK, ""},
		{"agent refusé sur statistiques", "agent_communal", "/dashboard/statistiques", http.StatusSeeOther, "/dashboard/infrastructures"},
		{"admin autorisé sur statistiques", "admin", "/dashboard/statistiques", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSessions(t)
			data := staffSession()
			data.Role = tt.role

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireSession(m, testLogger())(RequirePath(tt.path)(next))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithSession(t, m, data))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, attendu %d", rec.Code, tt.wantCode)
			}
			if tt.wantLoc != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
					t.Errorf("Location = %q, attendu %q", loc, tt.wantLoc)
				}
			}
		})
	}
}
