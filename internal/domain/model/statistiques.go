package model

import "encoding/json"

// Statistiques — agrégats globaux affichés sur le tableau de bord.
type Statistiques struct {
	TotalInfrastructures  int            `json:"total_infrastructures"`
	InfrastructuresParEtat map[string]int `json:"infrastructures_par_etat"`
	InfrastructuresParType map[string]int `json:"infrastructures_par_type"`
	TotalUtilisateurs     int            `json:"total_utilisateurs"`
	UtilisateursActifs    int            `json:"utilisateurs_actifs"`
	TotalPropositions     int            `json:"total_propositions"`
	PropositionsEnAttente int            `json:"propositions_en_attente"`
	TotalSignalements     int            `json:"total_signalements"`
	SignalementsNouveaux  int            `json:"signalements_nouveaux"`
	TotalAvis             int            `json:"total_avis"`
	AvisEnAttente         int            `json:"avis_en_attente"`
	// TopInfrastructures : les mieux notées, affichées sur le tableau de bord
	TopInfrastructures []Infrastructure `json:"top_infrastructures"`
}

// CanonicalID — les statistiques globales forment un singleton.
func (s Statistiques) CanonicalID() string { return "statistiques" }

// StatistiqueZone — agrégats par zone (commune, arrondissement ou
// village), utilisés par l'exploration géographique des statistiques.
type StatistiqueZone struct {
	Nom                  string
	TotalInfrastructures int
	InfrastructuresValides int
	TotalSignalements    int
	NoteMoyenne          float64
}

type statistiqueZoneWire struct {
	Nom                    string   `json:"nom"`
	Commune                string   `json:"commune"`
	Arrondissement         string   `json:"arrondissement"`
	Village                string   `json:"village"`
	TotalInfrastructures   int      `json:"total_infrastructures"`
	InfrastructuresValides int      `json:"infrastructures_valides"`
	TotalSignalements      int      `json:"total_signalements"`
	NoteMoyenne            *float64 `json:"note_moyenne"`
	NoteMoyenneAlt         *float64 `json:"noteMoyenne"`
}

// UnmarshalJSON normalise les alias de champs de l'API : selon le
// niveau d'exploration le nom de zone arrive sous nom, commune,
// arrondissement ou village.
func (s *StatistiqueZone) UnmarshalJSON(data []byte) error {
	var w statistiqueZoneWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = StatistiqueZone{
		Nom:                    firstNonEmpty(w.Nom, w.Commune, w.Arrondissement, w.Village),
		TotalInfrastructures:   w.TotalInfrastructures,
		InfrastructuresValides: w.InfrastructuresValides,
		TotalSignalements:      w.TotalSignalements,
		NoteMoyenne:            firstFloat(w.NoteMoyenne, w.NoteMoyenneAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (s StatistiqueZone) CanonicalID() string { return s.Nom }
