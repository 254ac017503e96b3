package model

import (
	"encoding/json"
	"time"
)

// Proposition — proposition d'ajout d'infrastructure soumise par un
// citoyen, en attente de modération.
type Proposition struct {
	ID             string
	Nom            string
	Type           string
	Description    string
	Adresse        string
	Commune        string
	Arrondissement string
	Village        string
	Latitude       float64
	Longitude      float64
	Statut         StatutProposition
	// ProposePar : identifiant du citoyen à l'origine de la proposition
	ProposePar    string
	ProposeParNom string
	// MotifRejet : renseigné lorsque la proposition est rejetée
	MotifRejet string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type propositionWire struct {
	ID               string     `json:"id"`
	AltID            string     `json:"_id"`
	Nom              string     `json:"nom"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	Adresse          string     `json:"adresse"`
	Commune          string     `json:"commune"`
	Arrondissement   string     `json:"arrondissement"`
	Village          string     `json:"village"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Statut           string     `json:"statut"`
	ProposePar       string     `json:"propose_par"`
	ProposeParAlt    string     `json:"proposePar"`
	ProposeParNom    string     `json:"propose_par_nom"`
	ProposeParNomAlt string     `json:"proposeParNom"`
	MotifRejet       string     `json:"motif_rejet"`
	MotifRejetAlt    string     `json:"motifRejet"`
	CreatedAt        *time.Time `json:"created_at"`
	CreatedAtAlt     *time.Time `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updated_at"`
	UpdatedAtAlt     *time.Time `json:"updatedAt"`
}

// UnmarshalJSON normalise les alias de champs de l'API.
func (p *Proposition) UnmarshalJSON(data []byte) error {
	var w propositionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Proposition{
		ID:             firstNonEmpty(w.ID, w.AltID),
		Nom:            w.Nom,
		Type:           w.Type,
		Description:    w.Description,
		Adresse:        w.Adresse,
		Commune:        w.Commune,
		Arrondissement: w.Arrondissement,
		Village:        w.Village,
		Latitude:       w.Latitude,
		Longitude:      w.Longitude,
		Statut:         StatutProposition(w.Statut),
		ProposePar:     firstNonEmpty(w.ProposePar, w.ProposeParAlt),
		ProposeParNom:  firstNonEmpty(w.ProposeParNom, w.ProposeParNomAlt),
		MotifRejet:     firstNonEmpty(w.MotifRejet, w.MotifRejetAlt),
		CreatedAt:      firstTime(w.CreatedAt, w.CreatedAtAlt),
		UpdatedAt:      firstTime(w.UpdatedAt, w.UpdatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (p Proposition) CanonicalID() string { return p.ID }
