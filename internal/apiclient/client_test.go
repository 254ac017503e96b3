package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// testLogger retourne un logger silencieux pour les tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticToken retourne un TokenProvider à jeton fixe.
func staticToken(token string) TokenProvider {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("jeton-test"), testLogger())
	if _, _, err := c.ListInfrastructures(context.Background(), InfrastructureFilter{}); err != nil {
		t.Fatalf("ListInfrastructures : %v", err)
	}
	if gotAuth != "Bearer jeton-test" {
		t.Errorf("Authorization = %q, attendu Bearer jeton-test", gotAuth)
	}
}

func TestClientPrefersContextToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// Chaîne : contexte prioritaire, compte de service en repli
	sa := &ServiceAccount{token: "jeton-service", logger: testLogger()}
	c := New(server.URL, ChainTokenProvider(sa), testLogger())

	ctx := WithToken(context.Background(), "jeton-session")
	if _, err := c.ListZones(ctx); err != nil {
		t.Fatalf("ListZones : %v", err)
	}
	if gotAuth != "Bearer jeton-session" {
		t.Errorf("Authorization = %q, le jeton de session doit primer", gotAuth)
	}
}

func TestListInfrastructuresQueryFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("t"), testLogger())
	valide := false
	_, _, err := c.ListInfrastructures(context.Background(), InfrastructureFilter{
		Type: "toilette", Valide: &valide, Etat: "mauvais", Page: 2, Limit: 20,
	})
	if err != nil {
		t.Fatalf("ListInfrastructures : %v", err)
	}
	want := "etat=mauvais&limit=20&page=2&type=toilette&valide=false"
	if gotQuery != want {
		t.Errorf("query = %q, attendu %q", gotQuery, want)
	}
}

func TestDecodeListBareArrayAndEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantLen  int
		wantPage *model.Pagination
	}{
		{
			name:    "tableau nu",
			body:    `[{"id":"a-1","note":4},{"id":"a-2","note":2}]`,
			wantLen: 2,
		},
		{
			name:     "enveloppe data avec pagination",
			body:     `{"data":[{"id":"a-3"}],"pagination":{"page":2,"limit":10,"total":21,"pages":3}}`,
			wantLen:  1,
			wantPage: &model.Pagination{Page: 2, Limit: 10, Total: 21, Pages: 3},
		},
		{
			name:    "enveloppe au nom de la ressource",
			body:    `{"avis":[{"id":"a-4"},{"id":"a-5"},{"id":"a-6"}]}`,
			wantLen: 3,
		},
		{
			name:    "corps vide",
			body:    ``,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, pagination, err := decodeList[model.Avis]([]byte(tt.body), "avis")
			if err != nil {
				t.Fatalf("decodeList : %v", err)
			}
			if len(items) != tt.wantLen {
				t.Errorf("%d éléments, attendu %d", len(items), tt.wantLen)
			}
			if tt.wantPage != nil {
				if pagination == nil {
					t.Fatal("pagination absente")
				}
				if *pagination != *tt.wantPage {
					t.Errorf("pagination = %+v, attendu %+v", *pagination, *tt.wantPage)
				}
			}
		})
	}
}

func TestDecodeListUnknownEnvelope(t *testing.T) {
	if _, _, err := decodeList[model.Avis]([]byte(`{"resultats":[]}`)); err == nil {
		t.Fatal("une enveloppe sans clé reconnue doit échouer")
	}
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		check   func(error) bool
	}{
		{"401 simple", http.StatusUnauthorized, `{"message":"jeton expiré"}`, "jeton expiré", IsUnauthorized},
		{"403", http.StatusForbidden, `{"message":"accès refusé"}`, "accès refusé", IsForbidden},
		{"404 enveloppe error", http.StatusNotFound, `{"error":{"code":"not_found","message":"introuvable"}}`, "introuvable", IsNotFound},
		{"500 corps non JSON", http.StatusInternalServerError, `boom`, "", func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL, staticToken("t"), testLogger())
			_, err := c.ListZones(context.Background())
			if err == nil {
				t.Fatal("erreur attendue")
			}
			if !tt.check(err) {
				t.Errorf("classification incorrecte pour %v", err)
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) && tt.wantMsg != "" && apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, attendu %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("appel inattendu %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("le login ne doit pas envoyer de jeton")
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "admin@cotonav.bj" {
			t.Errorf("email = %q", creds["email"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token":      "jeton-emis",
			"expires_in": 3600,
			"user":       map[string]any{"_id": "u-1", "role": "admin"},
		})
	}))
	defer server.Close()

	c := New(server.URL, nil, testLogger())
	result, err := c.Login(context.Background(), "admin@cotonav.bj", "secret")
	if err != nil {
		t.Fatalf("Login : %v", err)
	}
	if result.Token != "jeton-emis" {
		t.Errorf("Token = %q", result.Token)
	}
	if result.User.ID != "u-1" {
		t.Errorf("User.ID = %q, normalisation _id attendue", result.User.ID)
	}
}

func TestLoginSansJeton(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":"u-1"}}`))
	}))
	defer server.Close()

	c := New(server.URL, nil, testLogger())
	if _, err := c.Login(context.Background(), "a@b", "x"); err == nil {
		t.Fatal("une réponse sans jeton doit échouer")
	}
}

func TestServiceAccountTokenCache(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"token": "jeton-sa", "expires_in": 3600})
	}))
	defer server.Close()

	c := New(server.URL, nil, testLogger())
	sa := NewServiceAccount(c, "svc@cotonav.bj", "secret", testLogger())

	for range 5 {
		token, err := sa.Token(context.Background())
		if err != nil {
			t.Fatalf("Token : %v", err)
		}
		if token != "jeton-sa" {
			t.Errorf("Token = %q", token)
		}
	}
	if got := logins.Load(); got != 1 {
		t.Errorf("%d connexions, le jeton doit être mis en cache (attendu 1)", got)
	}
}

func TestApproveProposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/propositions/p-1/approuver" || r.Method != http.MethodPatch {
			t.Errorf("appel inattendu %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"proposition":    map[string]any{"id": "p-1", "statut": "approuve"},
			"infrastructure": map[string]any{"_id": "inf-9", "nom": "Toilette publique Ganhi"},
		})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("t"), testLogger())
	result, err := c.ApproveProposition(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ApproveProposition : %v", err)
	}
	if result.Proposition.Statut != model.PropositionApprouvee {
		t.Errorf("Statut = %s, attendu approuve", result.Proposition.Statut)
	}
	if result.Infrastructure == nil || result.Infrastructure.ID != "inf-9" {
		t.Error("l'infrastructure créée doit être renvoyée avec son ID canonique")
	}
}

func TestUpdateSignalementStatutBody(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, staticToken("t"), testLogger())
	err := c.UpdateSignalementStatut(context.Background(), "s-1", model.SignalementResolu, "réparé le 12/05")
	if err != nil {
		t.Fatalf("UpdateSignalementStatut : %v", err)
	}
	if gotBody["statut"] != "resolu" {
		t.Errorf("statut = %q", gotBody["statut"])
	}
	if gotBody["commentaire_traitement"] != "réparé le 12/05" {
		t.Errorf("commentaire_traitement = %q", gotBody["commentaire_traitement"])
	}
}
