package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func infrastructureForm() url.Values {
	return url.Values{
		"nom":            {"Borne fontaine Fidjrossè"},
		"type":           {"point_eau"},
		"description":    {"Borne fontaine du marché"},
		"adresse":        {"Rue 230, Fidjrossè"},
		"commune":        {"Cotonou"},
		"arrondissement": {"12e arrondissement"},
		"latitude":       {"6.3654"},
		"longitude":      {"2.3912"},
		"etat":           {"bon"},
	}
}

func TestUpdateInfrastructure(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewInfrastructuresHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, postForm("/dashboard/infrastructures/i-1",
		sessionWithRole("admin"), map[string]string{"id": "i-1"}, infrastructureForm()))

	wantRedirect(t, rec, "/dashboard/infrastructures/i-1?info="+
		url.QueryEscape("Infrastructure modifiée"))

	if len(api.calls) != 1 {
		t.Fatalf("appels backend = %d, attendu 1", len(api.calls))
	}
	call := api.calls[0]
	if call.method != http.MethodPut || call.path != "/infrastructures/i-1" {
		t.Errorf("appel = %s %s, attendu PUT /infrastructures/i-1", call.method, call.path)
	}
	if !strings.Contains(call.body, `"nom":"Borne fontaine Fidjrossè"`) ||
		!strings.Contains(call.body, `"latitude":6.3654`) {
		t.Errorf("corps = %s", call.body)
	}
}

func TestUpdateInfrastructureChampsObligatoires(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewInfrastructuresHandler(newCommon(t), client, testLogger())

	form := infrastructureForm()
	form.Del("nom")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, postForm("/dashboard/infrastructures/i-1",
		sessionWithRole("admin"), map[string]string{"id": "i-1"}, form))

	wantRedirect(t, rec, "/dashboard/infrastructures/i-1?erreur="+
		url.QueryEscape("Le nom et le type sont obligatoires"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé avec un formulaire incomplet")
	}
}

func TestUpdateInfrastructureCoordonneesInvalides(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewInfrastructuresHandler(newCommon(t), client, testLogger())

	form := infrastructureForm()
	form.Set("latitude", "nord")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, postForm("/dashboard/infrastructures/i-1",
		sessionWithRole("admin"), map[string]string{"id": "i-1"}, form))

	wantRedirect(t, rec, "/dashboard/infrastructures/i-1?erreur="+
		url.QueryEscape("Coordonnées invalides"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé avec des coordonnées invalides")
	}
}

func TestUpdateInfrastructureSansSession(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewInfrastructuresHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, postForm("/dashboard/infrastructures/i-1",
		nil, map[string]string{"id": "i-1"}, infrastructureForm()))

	wantRedirect(t, rec, "/dashboard/infrastructures?erreur="+
		url.QueryEscape("Action refusée : droits insuffisants"))
	if len(api.calls) != 0 {
		t.Error("le backend ne doit pas être appelé sans session")
	}
}

func TestDetailIntrouvable(t *testing.T) {
	api, client := newFakeAPI(t)
	api.status = http.StatusNotFound
	h := NewInfrastructuresHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleDetail(rec, postForm("/dashboard/infrastructures/i-9",
		sessionWithRole("admin"), map[string]string{"id": "i-9"}, nil))

	wantRedirect(t, rec, "/dashboard/infrastructures?erreur="+
		url.QueryEscape("Cet élément n'existe plus, la liste a été actualisée"))
}
