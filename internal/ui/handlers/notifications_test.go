package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cotonav/dashboard-module/internal/ui/middleware"
)

func TestMarkRead(t *testing.T) {
	_, client := newFakeAPI(t)
	common := newCommon(t)
	h := NewNotificationsHandler(common, client, time.Second, testLogger())

	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, postForm("/dashboard/notifications/n-1/lu",
		sessionWithRole("admin"), map[string]string{"id": "n-1"}, nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, attendu 204", rec.Code)
	}
	reads := common.Reads.(*fakeReads)
	if !reads.marks["staff-1"]["n-1"] {
		t.Error("la marque de lecture doit être enregistrée pour l'utilisateur de la session")
	}
}

func TestMarkReadSansSession(t *testing.T) {
	_, client := newFakeAPI(t)
	h := NewNotificationsHandler(newCommon(t), client, time.Second, testLogger())

	rec := httptest.NewRecorder()
	h.HandleMarkRead(rec, postForm("/dashboard/notifications/n-1/lu",
		nil, map[string]string{"id": "n-1"}, nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, attendu 401", rec.Code)
	}
}

func fcmRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/notifications/fcm-token",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithSession(req.Context(), sessionWithRole("admin")))
}

func TestFCMTokenRelais(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewNotificationsHandler(newCommon(t), client, time.Second, testLogger())

	rec := httptest.NewRecorder()
	h.HandleFCMToken(rec, fcmRequest(`{"token":"appareil-abc"}`))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, attendu 204", rec.Code)
	}
	if len(api.calls) != 1 || !strings.Contains(api.calls[0].body, "appareil-abc") {
		t.Errorf("le jeton doit être relayé au backend, appels = %+v", api.calls)
	}
}

func TestFCMTokenManquant(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewNotificationsHandler(newCommon(t), client, time.Second, testLogger())

	rec := httptest.NewRecorder()
	h.HandleFCMToken(rec, fcmRequest(`{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, attendu 400", rec.Code)
	}
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé sans jeton")
	}
}

func TestFCMTokenBackendEnEchec(t *testing.T) {
	api, client := newFakeAPI(t)
	api.status = http.StatusInternalServerError
	h := NewNotificationsHandler(newCommon(t), client, time.Second, testLogger())

	rec := httptest.NewRecorder()
	h.HandleFCMToken(rec, fcmRequest(`{"token":"appareil-abc"}`))

	// Best effort : l'échec du relais ne remonte pas au navigateur
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, attendu 204", rec.Code)
	}
}
