package model

import (
	"encoding/json"
	"time"
)

// Utilisateur — compte de la plateforme (citoyen ou membre du personnel).
type Utilisateur struct {
	ID        string
	Nom       string
	Prenom    string
	Email     string
	Telephone string
	// Role : super_admin, admin, agent_communal ou citoyen
	Role string
	// Actif : false si le compte est désactivé
	Actif bool
	// Zone d'affectation (agents communaux uniquement)
	Commune        string
	Arrondissement string
	CreatedAt      time.Time
}

type utilisateurWire struct {
	ID           string     `json:"id"`
	AltID        string     `json:"_id"`
	Nom          string     `json:"nom"`
	Prenom       string     `json:"prenom"`
	Email        string     `json:"email"`
	Telephone    string     `json:"telephone"`
	Role         string     `json:"role"`
	Actif        *bool      `json:"actif"`
	Commune      string     `json:"commune"`
	Arrondiss    string     `json:"arrondissement"`
	CreatedAt    *time.Time `json:"created_at"`
	CreatedAtAlt *time.Time `json:"createdAt"`
}

// UnmarshalJSON normalise les alias de champs de l'API. Un champ actif
// absent vaut true : l'API n'envoie le champ que pour les comptes
// désactivés sur certains endpoints.
func (u *Utilisateur) UnmarshalJSON(data []byte) error {
	var w utilisateurWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	actif := true
	if w.Actif != nil {
		actif = *w.Actif
	}
	*u = Utilisateur{
		ID:             firstNonEmpty(w.ID, w.AltID),
		Nom:            w.Nom,
		Prenom:         w.Prenom,
		Email:          w.Email,
		Telephone:      w.Telephone,
		Role:           w.Role,
		Actif:          actif,
		Commune:        w.Commune,
		Arrondissement: w.Arrondiss,
		CreatedAt:      firstTime(w.CreatedAt, w.CreatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (u Utilisateur) CanonicalID() string { return u.ID }

// NomComplet retourne "Prénom Nom" pour l'affichage.
func (u Utilisateur) NomComplet() string {
	switch {
	case u.Prenom == "":
		return u.Nom
	case u.Nom == "":
		return u.Prenom
	}
	return u.Prenom + " " + u.Nom
}
