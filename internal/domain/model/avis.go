package model

import (
	"encoding/json"
	"time"
)

// Avis — avis citoyen sur une infrastructure, soumis à modération.
type Avis struct {
	ID                string
	InfrastructureID  string
	InfrastructureNom string
	AuteurID          string
	AuteurNom         string
	// Note de 1 à 5
	Note        int
	Commentaire string
	// Approuve : true une fois l'avis validé par la modération
	Approuve  bool
	CreatedAt time.Time
}

type avisWire struct {
	ID                   string     `json:"id"`
	AltID                string     `json:"_id"`
	InfrastructureID     string     `json:"infrastructure_id"`
	InfrastructureIDAlt  string     `json:"infrastructureId"`
	InfrastructureNom    string     `json:"infrastructure_nom"`
	InfrastructureNomAlt string     `json:"infrastructureNom"`
	AuteurID             string     `json:"auteur_id"`
	AuteurIDAlt          string     `json:"auteurId"`
	AuteurNom            string     `json:"auteur_nom"`
	AuteurNomAlt         string     `json:"auteurNom"`
	Note                 int        `json:"note"`
	Commentaire          string     `json:"commentaire"`
	Approuve             bool       `json:"approuve"`
	CreatedAt            *time.Time `json:"created_at"`
	CreatedAtAlt         *time.Time `json:"createdAt"`
}

// UnmarshalJSON normalise les alias de champs de l'API.
func (a *Avis) UnmarshalJSON(data []byte) error {
	var w avisWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Avis{
		ID:                firstNonEmpty(w.ID, w.AltID),
		InfrastructureID:  firstNonEmpty(w.InfrastructureID, w.InfrastructureIDAlt),
		InfrastructureNom: firstNonEmpty(w.InfrastructureNom, w.InfrastructureNomAlt),
		AuteurID:          firstNonEmpty(w.AuteurID, w.AuteurIDAlt),
		AuteurNom:         firstNonEmpty(w.AuteurNom, w.AuteurNomAlt),
		Note:              w.Note,
		Commentaire:       w.Commentaire,
		Approuve:          w.Approuve,
		CreatedAt:         firstTime(w.CreatedAt, w.CreatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (a Avis) CanonicalID() string { return a.ID }
