package model

// StatutProposition — cycle de vie d'une proposition d'infrastructure.
type StatutProposition string

const (
	PropositionEnAttente StatutProposition = "en_attente"
	PropositionApprouvee StatutProposition = "approuve"
	PropositionRejetee   StatutProposition = "rejete"
)

// transitions autorisées pour les propositions. Les statuts approuve et
// rejete sont terminaux.
var propositionTransitions = map[StatutProposition][]StatutProposition{
	PropositionEnAttente: {PropositionApprouvee, PropositionRejetee},
}

// CanTransition indique si le passage vers le statut cible est autorisé.
func (s StatutProposition) CanTransition(to StatutProposition) bool {
	for _, next := range propositionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// EstTerminal indique si le statut n'admet plus aucune transition.
func (s StatutProposition) EstTerminal() bool {
	return len(propositionTransitions[s]) == 0
}

// Valide indique si la valeur fait partie du cycle de vie connu.
func (s StatutProposition) Valide() bool {
	switch s {
	case PropositionEnAttente, PropositionApprouvee, PropositionRejetee:
		return true
	}
	return false
}

// StatutSignalement — cycle de vie d'un signalement.
type StatutSignalement string

const (
	SignalementNouveau StatutSignalement = "nouveau"
	SignalementEnCours StatutSignalement = "en_cours"
	SignalementResolu  StatutSignalement = "resolu"
	SignalementRejete  StatutSignalement = "rejete"
)

// transitions autorisées pour les signalements. resolu et rejete sont
// terminaux, le retour en arrière est interdit.
var signalementTransitions = map[StatutSignalement][]StatutSignalement{
	SignalementNouveau: {SignalementEnCours, SignalementResolu, SignalementRejete},
	SignalementEnCours: {SignalementResolu, SignalementRejete},
}

// CanTransition indique si le passage vers le statut cible est autorisé.
func (s StatutSignalement) CanTransition(to StatutSignalement) bool {
	for _, next := range signalementTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// EstTerminal indique si le statut n'admet plus aucune transition.
func (s StatutSignalement) EstTerminal() bool {
	return len(signalementTransitions[s]) == 0
}

// Valide indique si la valeur fait partie du cycle de vie connu.
func (s StatutSignalement) Valide() bool {
	switch s {
	case SignalementNouveau, SignalementEnCours, SignalementResolu, SignalementRejete:
		return true
	}
	return false
}

// TypeSignalement — nature du problème signalé par un citoyen.
type TypeSignalement string

const (
	SignalementEquipementDegrade    TypeSignalement = "equipement_degrade"
	SignalementFermetureTemporaire  TypeSignalement = "fermeture_temporaire"
	SignalementInformationIncorrect TypeSignalement = "information_incorrecte"
	SignalementAutre                TypeSignalement = "autre"
)

// LibelleTypeSignalement retourne le libellé affichable d'un type de
// signalement. Les types inconnus sont affichés tels quels.
func LibelleTypeSignalement(t TypeSignalement) string {
	switch t {
	case SignalementEquipementDegrade:
		return "Équipement dégradé"
	case SignalementFermetureTemporaire:
		return "Fermeture temporaire"
	case SignalementInformationIncorrect:
		return "Information incorrecte"
	case SignalementAutre:
		return "Autre"
	}
	return string(t)
}
