package model

import (
	"encoding/json"
	"time"
)

// Infrastructure — équipement public référencé sur la plateforme
// (toilette publique, aire de jeux, centre de santé, ...).
type Infrastructure struct {
	ID          string
	Nom         string
	Type        string
	Description string
	Adresse     string
	Commune     string
	// Arrondissement de Cotonou (ex: "12e arrondissement")
	Arrondissement string
	Village        string
	Latitude       float64
	Longitude      float64
	// Valide : true une fois l'infrastructure validée par le personnel
	Valide bool
	// Etat physique : bon, moyen, mauvais
	Etat        string
	NoteMoyenne float64
	NbAvis      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// infrastructureWire — forme brute renvoyée par l'API, alias compris.
type infrastructureWire struct {
	ID             string     `json:"id"`
	AltID          string     `json:"_id"`
	Nom            string     `json:"nom"`
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	Adresse        string     `json:"adresse"`
	Commune        string     `json:"commune"`
	Arrondissement string     `json:"arrondissement"`
	Village        string     `json:"village"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Valide         bool       `json:"valide"`
	Etat           string     `json:"etat"`
	NoteMoyenne    *float64   `json:"note_moyenne"`
	NoteMoyenneAlt *float64   `json:"noteMoyenne"`
	NbAvis         int        `json:"nb_avis"`
	CreatedAt      *time.Time `json:"created_at"`
	CreatedAtAlt   *time.Time `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updated_at"`
	UpdatedAtAlt   *time.Time `json:"updatedAt"`
}

// UnmarshalJSON normalise les alias de champs de l'API.
func (i *Infrastructure) UnmarshalJSON(data []byte) error {
	var w infrastructureWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = Infrastructure{
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
		Valide:         w.Valide,
		Etat:           w.Etat,
		NoteMoyenne:    firstFloat(w.NoteMoyenne, w.NoteMoyenneAlt),
		NbAvis:         w.NbAvis,
		CreatedAt:      firstTime(w.CreatedAt, w.CreatedAtAlt),
		UpdatedAt:      firstTime(w.UpdatedAt, w.UpdatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (i Infrastructure) CanonicalID() string { return i.ID }
