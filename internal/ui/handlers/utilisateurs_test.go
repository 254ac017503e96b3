package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name    string
		session string
		role    string
		wantAPI bool
		wantLoc string
	}{
		{
			name: "super admin nomme un admin", session: "super_admin", role: "admin",
			wantAPI: true,
			wantLoc: "/dashboard/utilisateurs?info=" + url.QueryEscape("Rôle modifié"),
		},
		{
			name: "admin nomme un agent communal", session: "admin", role: "agent_communal",
			wantAPI: true,
			wantLoc: "/dashboard/utilisateurs?info=" + url.QueryEscape("Rôle modifié"),
		},
		{
			name: "admin ne nomme pas d'admin", session: "admin", role: "admin",
			wantAPI: false,
			wantLoc: "/dashboard/utilisateurs?erreur=" + url.QueryEscape("Vous ne pouvez pas attribuer ce rôle"),
		},
		{
			name: "personne ne nomme de super admin", session: "super_admin", role: "super_admin",
			wantAPI: false,
			wantLoc: "/dashboard/utilisateurs?erreur=" + url.QueryEscape("Vous ne pouvez pas attribuer ce rôle"),
		},
		{
			name: "agent communal sans droits", session: "agent_communal", role: "citoyen",
			wantAPI: false,
			wantLoc: "/dashboard/utilisateurs?erreur=" + url.QueryEscape("Action refusée : droits insuffisants"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeAPI(t)
			h := NewUtilisateursHandler(newCommon(t), client, testLogger())

			form := url.Values{"role": {tt.role}}
			rec := httptest.NewRecorder()
			h.HandleChangeRole(rec, postForm("/dashboard/utilisateurs/u-9/role",
				sessionWithRole(tt.session), map[string]string{"id": "u-9"}, form))

			wantRedirect(t, rec, tt.wantLoc)
			if tt.wantAPI != (len(api.calls) == 1) {
				t.Errorf("appels backend = %d, attendu un appel : %v", len(api.calls), tt.wantAPI)
			}
		})
	}
}

func TestToggleActif(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewUtilisateursHandler(newCommon(t), client, testLogger())

	form := url.Values{"actif": {"true"}}
	rec := httptest.NewRecorder()
	h.HandleToggleActif(rec, postForm("/dashboard/utilisateurs/u-9/actif",
		sessionWithRole("admin"), map[string]string{"id": "u-9"}, form))

	wantRedirect(t, rec, "/dashboard/utilisateurs?info="+url.QueryEscape("Compte activé"))

	if len(api.calls) != 1 {
		t.Fatalf("appels backend = %d, attendu 1", len(api.calls))
	}
	call := api.calls[0]
	if call.method != http.MethodPatch || call.path != "/users/u-9/actif" {
		t.Errorf("appel = %s %s, attendu PATCH /users/u-9/actif", call.method, call.path)
	}
	if call.body != `{"actif":true}` {
		t.Errorf("corps = %s, attendu {\"actif\":true}", call.body)
	}
}

func TestToggleActifSansDroits(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewUtilisateursHandler(newCommon(t), client, testLogger())

	form := url.Values{"actif": {"false"}}
	rec := httptest.NewRecorder()
	h.HandleToggleActif(rec, postForm("/dashboard/utilisateurs/u-9/actif",
		sessionWithRole("agent_communal"), map[string]string{"id": "u-9"}, form))

	wantRedirect(t, rec, "/dashboard/utilisateurs?erreur="+
		url.QueryEscape("Action refusée : droits insuffisants"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé sans droits")
	}
}
