package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func staffForm(role, commune string) url.Values {
	return url.Values{
		"nom":      {"Houngbedji"},
		"prenom":   {"Léa"},
		"email":    {"lea@cotonou.bj"},
		"password": {"motdepasse"},
		"role":     {role},
		"commune":  {commune},
	}
}

func TestCreateStaff(t *testing.T) {
	tests := []struct {
		name    string
		session string
		form    url.Values
		wantAPI bool
		wantLoc string
	}{
		{
			name: "admin crée un agent communal", session: "admin",
			form:    staffForm("agent_communal", "Cotonou"),
			wantAPI: true,
			wantLoc: "/dashboard/profils?info=" + url.QueryEscape("Compte « lea@cotonou.bj » créé"),
		},
		{
			name: "super admin crée un admin", session: "super_admin",
			form:    staffForm("admin", ""),
			wantAPI: true,
			wantLoc: "/dashboard/profils?info=" + url.QueryEscape("Compte « lea@cotonou.bj » créé"),
		},
		{
			name: "admin ne crée pas d'admin", session: "admin",
			form:    staffForm("admin", ""),
			wantAPI: false,
			wantLoc: "/dashboard/profils?erreur=" + url.QueryEscape("Seul un super administrateur peut créer un administrateur"),
		},
		{
			name: "agent communal sans commune", session: "super_admin",
			form:    staffForm("agent_communal", ""),
			wantAPI: false,
			wantLoc: "/dashboard/profils?erreur=" + url.QueryEscape("Un agent communal doit être affecté à une commune"),
		},
		{
			name: "rôle citoyen refusé", session: "super_admin",
			form:    staffForm("citoyen", ""),
			wantAPI: false,
			wantLoc: "/dashboard/profils?erreur=" + url.QueryEscape("Rôle demandé invalide"),
		},
		{
			name: "agent communal sans droits", session: "agent_communal",
			form:    staffForm("agent_communal", "Cotonou"),
			wantAPI: false,
			wantLoc: "/dashboard/profils?erreur=" + url.QueryEscape("Action refusée : droits insuffisants"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeAPI(t)
			api.body = `{"id":"u-42","email":"lea@cotonou.bj","role":"agent_communal"}`
			h := NewProfilsHandler(newCommon(t), client, testLogger())

			rec := httptest.NewRecorder()
			h.HandleCreate(rec, postForm("/dashboard/profils",
				sessionWithRole(tt.session), nil, tt.form))

			wantRedirect(t, rec, tt.wantLoc)
			if tt.wantAPI != (len(api.calls) == 1) {
				t.Errorf("appels backend = %d, attendu un appel : %v", len(api.calls), tt.wantAPI)
			}
		})
	}
}

func TestCreateStaffChampsManquants(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewProfilsHandler(newCommon(t), client, testLogger())

	form := staffForm("agent_communal", "Cotonou")
	form.Del("password")
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, postForm("/dashboard/profils", sessionWithRole("admin"), nil, form))

	wantRedirect(t, rec, "/dashboard/profils?erreur="+
		url.QueryEscape("Nom, email et mot de passe sont obligatoires"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé avec un formulaire incomplet")
	}
}

func TestDeleteStaff(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewProfilsHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, postForm("/dashboard/profils/u-9/supprimer",
		sessionWithRole("super_admin"), map[string]string{"id": "u-9"}, nil))

	wantRedirect(t, rec, "/dashboard/profils?info="+url.QueryEscape("Compte supprimé"))
	if len(api.calls) != 1 || api.calls[0].method != http.MethodDelete || api.calls[0].path != "/profile/u-9" {
		t.Errorf("appels = %+v, attendu DELETE /profile/u-9", api.calls)
	}
}

func TestDeleteStaffProprecompte(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewProfilsHandler(newCommon(t), client, testLogger())

	// L'identifiant visé est celui de la session
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, postForm("/dashboard/profils/staff-1/supprimer",
		sessionWithRole("super_admin"), map[string]string{"id": "staff-1"}, nil))

	wantRedirect(t, rec, "/dashboard/profils?erreur="+
		url.QueryEscape("Vous ne pouvez pas supprimer votre propre compte"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé pour une auto-suppression")
	}
}
