package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestUpdateStatutTransitions(t *testing.T) {
	tests := []struct {
		name    string
		depuis  string
		vers    string
		wantAPI bool
		wantLoc string
	}{
		{
			name: "nouveau vers en_cours", depuis: "nouveau", vers: "en_cours",
			wantAPI: true,
			wantLoc: "/dashboard/signalements?info=" + url.QueryEscape("Signalement mis à jour"),
		},
		{
			name: "en_cours vers resolu", depuis: "en_cours", vers: "resolu",
			wantAPI: true,
			wantLoc: "/dashboard/signalements?info=" + url.QueryEscape("Signalement mis à jour"),
		},
		{
			name: "resolu est terminal", depuis: "resolu", vers: "en_cours",
			wantAPI: false,
			wantLoc: "/dashboard/signalements?erreur=" + url.QueryEscape("Transition de statut non autorisée"),
		},
		{
			name: "statut cible inconnu", depuis: "nouveau", vers: "archive",
			wantAPI: false,
			wantLoc: "/dashboard/signalements?erreur=" + url.QueryEscape("Statut demandé inconnu"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeAPI(t)
			h := NewSignalementsHandler(newCommon(t), client, testLogger())

			form := url.Values{
				"statut_actuel": {tt.depuis},
				"statut":        {tt.vers},
				"commentaire":   {"pris en charge"},
			}
			rec := httptest.NewRecorder()
			h.HandleUpdateStatut(rec, postForm("/dashboard/signalements/s-1/statut",
				sessionWithRole("admin"), map[string]string{"id": "s-1"}, form))

			wantRedirect(t, rec, tt.wantLoc)

			if !tt.wantAPI {
				if len(api.calls) != 0 {
					t.Errorf("le backend ne doit pas être appelé, reçu %d appels", len(api.calls))
				}
				return
			}
			if len(api.calls) != 1 {
				t.Fatalf("appels backend = %d, attendu 1", len(api.calls))
			}
			call := api.calls[0]
			if call.method != http.MethodPatch || call.path != "/signalements/s-1" {
				t.Errorf("appel = %s %s, attendu PATCH /signalements/s-1", call.method, call.path)
			}
			if !strings.Contains(call.body, `"commentaire_traitement":"pris en charge"`) {
				t.Errorf("le commentaire de traitement doit être transmis, corps = %s", call.body)
			}
		})
	}
}

func TestUpdateStatutRessourceDisparue(t *testing.T) {
	api, client := newFakeAPI(t)
	api.status = http.StatusNotFound
	h := NewSignalementsHandler(newCommon(t), client, testLogger())

	form := url.Values{"statut_actuel": {"nouveau"}, "statut": {"en_cours"}}
	rec := httptest.NewRecorder()
	h.HandleUpdateStatut(rec, postForm("/dashboard/signalements/s-9/statut",
		sessionWithRole("admin"), map[string]string{"id": "s-9"}, form))

	wantRedirect(t, rec, "/dashboard/signalements?erreur="+
		url.QueryEscape("Cet élément n'existe plus, la liste a été actualisée"))
}

func TestUpdateStatut401ForceDeconnexion(t *testing.T) {
	api, client := newFakeAPI(t)
	api.status = http.StatusUnauthorized
	h := NewSignalementsHandler(newCommon(t), client, testLogger())

	form := url.Values{"statut_actuel": {"nouveau"}, "statut": {"resolu"}}
	rec := httptest.NewRecorder()
	h.HandleUpdateStatut(rec, postForm("/dashboard/signalements/s-1/statut",
		sessionWithRole("admin"), map[string]string{"id": "s-1"}, form))

	wantRedirect(t, rec, "/login?raison=session_expiree")

	// Le cookie de session doit être invalidé
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("le cookie de session doit être supprimé")
	}
}
