package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestInfrastructureUnmarshalAliases(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{
			name:   "champ id",
			input:  `{"id":"inf-1","nom":"Toilette publique Ganhi"}`,
			wantID: "inf-1",
		},
		{
			name:   "champ _id",
			input:  `{"_id":"inf-2","nom":"Aire de jeux Fidjrossè"}`,
			wantID: "inf-2",
		},
		{
			name: "les deux champs, id prioritaire",
			input: `{"id":"inf-3","_id":"inf-3-mongo","nom":"Centre de santé Akpakpa"}`,
			wantID: "inf-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inf Infrastructure
			if err := json.Unmarshal([]byte(tt.input), &inf); err != nil {
				t.Fatalf("Unmarshal : %v", err)
			}
			if inf.ID != tt.wantID {
				t.Errorf("ID = %q, attendu %q", inf.ID, tt.wantID)
			}
			if inf.CanonicalID() != tt.wantID {
				t.Errorf("CanonicalID() = %q, attendu %q", inf.CanonicalID(), tt.wantID)
			}
		})
	}
}

func TestInfrastructureUnmarshalTimeAndNoteAliases(t *testing.T) {
	input := `{
		"id": "inf-1",
		"nom": "Toilette publique Ganhi",
		"createdAt": "2026-05-12T08:30:00Z",
		"noteMoyenne": 4.2
	}`

	var inf Infrastructure
	if err := json.Unmarshal([]byte(input), &inf); err != nil {
		t.Fatalf("Unmarshal : %v", err)
	}

	want := time.Date(2026, 5, 12, 8, 30, 0, 0, time.UTC)
	if !inf.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, attendu %v (alias createdAt)", inf.CreatedAt, want)
	}
	if inf.NoteMoyenne != 4.2 {
		t.Errorf("NoteMoyenne = %v, attendu 4.2 (alias noteMoyenne)", inf.NoteMoyenne)
	}
}

func TestSignalementUnmarshalSignaleParAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"snake_case", `{"id":"s1","signale_par":"u-1"}`, "u-1"},
		{"camelCase", `{"id":"s1","signalePar":"u-2"}`, "u-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Signalement
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("Unmarshal : %v", err)
			}
			if s.SignalePar != tt.want {
				t.Errorf("SignalePar = %q, attendu %q", s.SignalePar, tt.want)
			}
		})
	}
}

func TestUtilisateurActifParDefaut(t *testing.T) {
	var u Utilisateur
	if err := json.Unmarshal([]byte(`{"id":"u-1","nom":"HOUNSOU"}`), &u); err != nil {
		t.Fatalf("Unmarshal : %v", err)
	}
	if !u.Actif {
		t.Error("Actif = false pour un champ absent, attendu true")
	}

	if err := json.Unmarshal([]byte(`{"id":"u-2","actif":false}`), &u); err != nil {
		t.Fatalf("Unmarshal : %v", err)
	}
	if u.Actif {
		t.Error("Actif = true pour actif=false explicite")
	}
}

func TestUtilisateurNomComplet(t *testing.T) {
	tests := []struct {
		prenom, nom, want string
	}{
		{"Ayaba", "HOUNSOU", "Ayaba HOUNSOU"},
		{"", "HOUNSOU", "HOUNSOU"},
		{"Ayaba", "", "Ayaba"},
	}
	for _, tt := range tests {
		u := Utilisateur{Prenom: tt.prenom, Nom: tt.nom}
		if got := u.NomComplet(); got != tt.want {
			t.Errorf("NomComplet(%q, %q) = %q, attendu %q", tt.prenom, tt.nom, got, tt.want)
		}
	}
}

func TestStatistiqueZoneNomAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"niveau commune", `{"commune":"Cotonou","total_infrastructures":120}`, "Cotonou"},
		{"niveau arrondissement", `{"arrondissement":"12e arrondissement"}`, "12e arrondissement"},
		{"niveau village", `{"village":"Ganhi"}`, "Ganhi"},
		{"champ nom direct", `{"nom":"Abomey-Calavi"}`, "Abomey-Calavi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StatistiqueZone
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("Unmarshal : %v", err)
			}
			if s.Nom != tt.want {
				t.Errorf("Nom = %q, attendu %q", s.Nom, tt.want)
			}
		})
	}
}
