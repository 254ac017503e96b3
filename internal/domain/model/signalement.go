package model

import (
	"encoding/json"
	"time"
)

// Signalement — problème signalé par un citoyen sur une infrastructure
// existante.
type Signalement struct {
	ID                string
	InfrastructureID  string
	InfrastructureNom string
	Type              TypeSignalement
	Description       string
	Statut            StatutSignalement
	// SignalePar : identifiant du citoyen auteur du signalement
	SignalePar    string
	SignaleParNom string
	// Commune et arrondissement de l'infrastructure concernée, utilisés
	// pour le filtrage par zone des agents communaux
	Commune        string
	Arrondissement string
	// CommentaireTraitement : note du personnel lors du traitement
	CommentaireTraitement string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type signalementWire struct {
	ID                    string     `json:"id"`
	AltID                 string     `json:"_id"`
	InfrastructureID      string     `json:"infrastructure_id"`
	InfrastructureIDAlt   string     `json:"infrastructureId"`
	InfrastructureNom     string     `json:"infrastructure_nom"`
	InfrastructureNomAlt  string     `json:"infrastructureNom"`
	Type                  string     `json:"type"`
	Description           string     `json:"description"`
	Statut                string     `json:"statut"`
	SignalePar            string     `json:"signale_par"`
	SignaleParAlt         string     `json:"signalePar"`
	SignaleParNom         string     `json:"signale_par_nom"`
	SignaleParNomAlt      string     `json:"signaleParNom"`
	Commune               string     `json:"commune"`
	Arrondissement        string     `json:"arrondissement"`
	CommentaireTraitement string     `json:"commentaire_traitement"`
	CommentaireAlt        string     `json:"commentaireTraitement"`
	CreatedAt             *time.Time `json:"created_at"`
	CreatedAtAlt          *time.Time `json:"createdAt"`
	UpdatedAt             *time.Time `json:"updated_at"`
	UpdatedAtAlt          *time.Time `json:"updatedAt"`
}

// UnmarshalJSON normalise les alias de champs de l'API.
func (s *Signalement) UnmarshalJSON(data []byte) error {
	var w signalementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Signalement{
		ID:                    firstNonEmpty(w.ID, w.AltID),
		InfrastructureID:      firstNonEmpty(w.InfrastructureID, w.InfrastructureIDAlt),
		InfrastructureNom:     firstNonEmpty(w.InfrastructureNom, w.InfrastructureNomAlt),
		Type:                  TypeSignalement(w.Type),
		Description:           w.Description,
		Statut:                StatutSignalement(w.Statut),
		SignalePar:            firstNonEmpty(w.SignalePar, w.SignaleParAlt),
		SignaleParNom:         firstNonEmpty(w.SignaleParNom, w.SignaleParNomAlt),
		Commune:               w.Commune,
		Arrondissement:        w.Arrondissement,
		CommentaireTraitement: firstNonEmpty(w.CommentaireTraitement, w.CommentaireAlt),
		CreatedAt:             firstTime(w.CreatedAt, w.CreatedAtAlt),
		UpdatedAt:             firstTime(w.UpdatedAt, w.UpdatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (s Signalement) CanonicalID() string { return s.ID }
