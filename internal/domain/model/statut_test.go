package model

import "testing"

func TestPropositionCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from StatutProposition
		to   StatutProposition
		want bool
	}{
		{"en_attente vers approuve", PropositionEnAttente, PropositionApprouvee, true},
		{"en_attente vers rejete", PropositionEnAttente, PropositionRejetee, true},
		{"approuve est terminal", PropositionApprouvee, PropositionRejetee, false},
		{"rejete est terminal", PropositionRejetee, PropositionApprouvee, false},
		{"retour vers en_attente interdit", PropositionApprouvee, PropositionEnAttente, false},
		{"statut inconnu sans transition", StatutProposition("archive"), PropositionApprouvee, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, attendu %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSignalementCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from StatutSignalement
		to   StatutSignalement
		want bool
	}{
		{"nouveau vers en_cours", SignalementNouveau, SignalementEnCours, true},
		{"nouveau vers resolu", SignalementNouveau, SignalementResolu, true},
		{"nouveau vers rejete", SignalementNouveau, SignalementRejete, true},
		{"en_cours vers resolu", SignalementEnCours, SignalementResolu, true},
		{"en_cours vers rejete", SignalementEnCours, SignalementRejete, true},
		{"en_cours vers nouveau interdit", SignalementEnCours, SignalementNouveau, false},
		{"resolu est terminal", SignalementResolu, SignalementEnCours, false},
		{"rejete est terminal", SignalementRejete, SignalementResolu, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s -> %s) = %v, attendu %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestEstTerminal(t *testing.T) {
	if PropositionEnAttente.EstTerminal() {
		t.Error("en_attente ne doit pas être terminal")
	}
	if !PropositionApprouvee.EstTerminal() || !PropositionRejetee.EstTerminal() {
		t.Error("approuve et rejete doivent être terminaux")
	}
	if SignalementNouveau.EstTerminal() || SignalementEnCours.EstTerminal() {
		t.Error("nouveau et en_cours ne doivent pas être terminaux")
	}
	if !SignalementResolu.EstTerminal() || !SignalementRejete.EstTerminal() {
		t.Error("resolu et rejete doivent être terminaux")
	}
}

func TestStatutValide(t *testing.T) {
	if !StatutSignalement("en_cours").Valide() {
		t.Error("en_cours doit être un statut valide")
	}
	if StatutSignalement("ferme").Valide() {
		t.Error("ferme ne doit pas être un statut valide")
	}
	if !StatutProposition("en_attente").Valide() {
		t.Error("en_attente doit être un statut valide")
	}
	if StatutProposition("").Valide() {
		t.Error("un statut vide ne doit pas être valide")
	}
}

func TestLibelleTypeSignalement(t *testing.T) {
	tests := []struct {
		in   TypeSignalement
		want string
	}{
		{SignalementEquipementDegrade, "Équipement dégradé"},
		{SignalementFermetureTemporaire, "Fermeture temporaire"},
		{SignalementInformationIncorrect, "Information incorrecte"},
		{SignalementAutre, "Autre"},
		{TypeSignalement("vandalisme"), "vandalisme"},
	}
	for _, tt := range tests {
		if got := LibelleTypeSignalement(tt.in); got != tt.want {
			t.Errorf("LibelleTypeSignalement(%q) = %q, attendu %q", tt.in, got, tt.want)
		}
	}
}
