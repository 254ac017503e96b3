package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestApprovePropositionNommeLInfrastructure(t *testing.T) {
	api, client := newFakeAPI(t)
	api.body = `{"infrastructure":{"id":"i-3","nom":"Borne fontaine Fidjrossè"}}`
	h := NewPropositionsHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleApprove(rec, postForm("/dashboard/propositions/p-1/approuver",
		sessionWithRole("admin"), map[string]string{"id": "p-1"}, nil))

	wantRedirect(t, rec, "/dashboard/propositions?info="+
		url.QueryEscape("Proposition approuvée, infrastructure « Borne fontaine Fidjrossè » créée"))
}

func TestRejectPropositionTransmetLeMotif(t *testing.T) {
	api, client := newFakeAPI(t)
	h := NewPropositionsHandler(newCommon(t), client, testLogger())

	form := url.Values{"motif": {"doublon d'une infrastructure existante"}}
	rec := httptest.NewRecorder()
	h.HandleReject(rec, postForm("/dashboard/propositions/p-1/rejeter",
		sessionWithRole("admin"), map[string]string{"id": "p-1"}, form))

	wantRedirect(t, rec, "/dashboard/propositions?info="+url.QueryEscape("Proposition rejetée"))

	if len(api.calls) != 1 {
		t.Fatalf("appels backend = %d, attendu 1", len(api.calls))
	}
	if !strings.Contains(api.calls[0].body, "doublon d'une infrastructure existante") {
		t.Errorf("le motif doit être transmis, corps = %s", api.calls[0].body)
	}
}
