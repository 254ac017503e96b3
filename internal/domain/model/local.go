package model

import "time"

// Types de l'état local du dashboard (PostgreSQL). Le dashboard ne
// stocke jamais de données de la plateforme, uniquement son propre
// état de fonctionnement.

// UISetting — préférence du dashboard (paire clé/valeur).
type UISetting struct {
	Key       string
	Value     string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotificationRead — marque de lecture d'une notification par un
// membre du personnel.
type NotificationRead struct {
	NotificationID string
	UserID         string
	ReadAt         time.Time
}

// RefreshState — horodatages des derniers rafraîchissements silencieux
// par vue sondée (une ligne, id = 1).
type RefreshState struct {
	ID                  int
	LastStatsRefreshAt  *time.Time
	LastFavorisRefreshAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
