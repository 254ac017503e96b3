package model

import "encoding/json"

// Zone — découpage administratif : commune, puis arrondissements, puis
// villages/quartiers.
type Zone struct {
	ID      string
	Commune string
	// Arrondissements de la commune
	Arrondissements []string
}

type zoneWire struct {
	ID                 string   `json:"id"`
	AltID              string   `json:"_id"`
	Commune            string   `json:"commune"`
	Nom                string   `json:"nom"`
	Arrondissements    []string `json:"arrondissements"`
	ArrondissementsAlt []string `json:"arrondissementsList"`
}

// UnmarshalJSON normalise les alias de champs de l'API.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var w zoneWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	arrs := w.Arrondissements
	if len(arrs) == 0 {
		arrs = w.ArrondissementsAlt
	}
	*z = Zone{
		ID:              firstNonEmpty(w.ID, w.AltID),
		Commune:         firstNonEmpty(w.Commune, w.Nom),
		Arrondissements: arrs,
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (z Zone) CanonicalID() string { return firstNonEmpty(z.ID, z.Commune) }
