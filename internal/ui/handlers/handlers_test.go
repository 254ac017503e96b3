package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/notifier"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCommon(t *testing.T) *Common {
	t.Helper()
	sessions, err := auth.NewSessionManager("secret-de-test", false, testLogger())
	if err != nil {
		t.Fatalf("NewSessionManager : %v", err)
	}
	return &Common{
		Sessions: sessions,
		Feed:     notifier.NewFeed(nil, "notifications", testLogger()),
		Reads:    newFakeReads(),
		Logger:   testLogger(),
	}
}

// fakeReads — marques de lecture en mémoire.
type fakeReads struct {
	marks map[string]map[string]bool
	err   error
}

func newFakeReads() *fakeReads {
	return &fakeReads{marks: map[string]map[string]bool{}}
}

func (f *fakeReads) MarkRead(ctx context.Context, notificationID, userID string) error {
	if f.err != nil {
		return f.err
	}
	if f.marks[userID] == nil {
		f.marks[userID] = map[string]bool{}
	}
	f.marks[userID][notificationID] = true
	return nil
}

func (f *fakeReads) ReadIDs(ctx context.Context, userID string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.marks[userID], nil
}

func (f *fakeReads) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return 0, nil
}

// apiCall — appel reçu par le faux backend.
type apiCall struct {
	method string
	path   string
	body   string
}

// fakeAPI enregistre les appels reçus et rejoue la réponse configurée.
type fakeAPI struct {
	calls  []apiCall
	status int
	body   string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *apiclient.Client) {
	t.Helper()
	f := &fakeAPI{status: http.StatusOK, body: "{}"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		f.calls = append(f.calls, apiCall{method: r.Method, path: r.URL.Path, body: string(payload)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, func(ctx context.Context) (string, error) {
		return "jeton-de-test", nil
	}, testLogger())
	return f, client
}

func sessionWithRole(role string) *auth.SessionData {
	return &auth.SessionData{
		Token:     "jeton-api",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		UserID:    "staff-1",
		Nom:       "Dossou",
		Prenom:    "Awa",
		Email:     "awa@cotonou.bj",
		Role:      role,
		Commune:   "Cotonou",
	}
}

// postForm construit une requête POST avec la session dans le contexte
// et les paramètres d'URL chi.
func postForm(target string, session *auth.SessionData, params map[string]string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(http.MethodPost, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	ctx := req.Context()
	if session != nil {
		ctx = middleware.WithSession(ctx, session)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, loc string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, attendu 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != loc {
		t.Errorf("Location = %q, attendu %q", got, loc)
	}
}

func TestFlashURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		key  string
		msg  string
		want string
	}{
		{"sans query", "/dashboard/avis", "info", "ok", "/dashboard/avis?info=ok"},
		{"query existante", "/dashboard/avis?page=3", "info", "ok", "/dashboard/avis?page=3&info=ok"},
		{"message échappé", "/dashboard/profils", "erreur", "Rôle demandé invalide",
			"/dashboard/profils?erreur=" + url.QueryEscape("Rôle demandé invalide")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flashURL(tt.path, tt.key, tt.msg); got != tt.want {
				t.Errorf("flashURL = %q, attendu %q", got, tt.want)
			}
		})
	}
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=abc", 1},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/avis?"+tt.query, nil)
		if got := pageParam(req); got != tt.want {
			t.Errorf("pageParam(%q) = %d, attendu %d", tt.query, got, tt.want)
		}
	}
}
