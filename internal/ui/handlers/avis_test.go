package handlers

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestModerateAvis(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		approuve string
		wantLoc  string
	}{
		{
			name: "approbation", target: "/dashboard/avis/a-1/moderer", approuve: "true",
			wantLoc: "/dashboard/avis?info=" + url.QueryEscape("Avis approuvé"),
		},
		{
			name: "masquage", target: "/dashboard/avis/a-1/moderer", approuve: "false",
			wantLoc: "/dashboard/avis?info=" + url.QueryEscape("Avis masqué"),
		},
		{
			name: "la pagination est conservée", target: "/dashboard/avis/a-1/moderer?page=3", approuve: "true",
			wantLoc: "/dashboard/avis?page=3&info=" + url.QueryEscape("Avis approuvé"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newFakeAPI(t)
			h := NewAvisHandler(newCommon(t), client, testLogger())

			form := url.Values{"approuve": {tt.approuve}}
			rec := httptest.NewRecorder()
			h.HandleModerate(rec, postForm(tt.target,
				sessionWithRole("admin"), map[string]string{"id": "a-1"}, form))

			wantRedirect(t, rec, tt.wantLoc)
		})
	}
}

func TestDeleteAvisConservePage(t *testing.T) {
	_, client := newFakeAPI(t)
	h := NewAvisHandler(newCommon(t), client, testLogger())

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, postForm("/dashboard/avis/a-7/supprimer?page=2",
		sessionWithRole("admin"), map[string]string{"id": "a-7"}, nil))

	wantRedirect(t, rec, "/dashboard/avis?page=2&info="+url.QueryEscape("Avis supprimé"))
}
