package model

import (
	"encoding/json"
	"time"
)

// TypeNotification — catégorie d'événement du flux de notifications.
type TypeNotification string

const (
	NotificationProposition TypeNotification = "proposition"
	NotificationSignalement TypeNotification = "signalement"
	NotificationFavori      TypeNotification = "favori"
	NotificationUtilisateur TypeNotification = "utilisateur"
)

// Notification — événement de la plateforme affiché dans l'en-tête du
// dashboard. Publié par le backend sur le canal Redis.
type Notification struct {
	ID        string
	Type      TypeNotification
	Titre     string
	Message   string
	// RessourceID : identifiant de la ressource concernée (proposition,
	// signalement, ...), pour le lien de navigation
	RessourceID string
	CreatedAt   time.Time
	// Lu : positionné par enregistrement et par utilisateur au rendu
	Lu bool
}

type notificationWire struct {
	ID             string     `json:"id"`
	AltID          string     `json:"_id"`
	Type           string     `json:"type"`
	Titre          string     `json:"titre"`
	Message        string     `json:"message"`
	RessourceID    string     `json:"ressource_id"`
	RessourceIDAlt string     `json:"ressourceId"`
	CreatedAt      *time.Time `json:"created_at"`
	CreatedAtAlt   *time.Time `json:"createdAt"`
}

// UnmarshalJSON normalise les alias de champs du canal de notifications.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var w notificationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Notification{
		ID:          firstNonEmpty(w.ID, w.AltID),
		Type:        TypeNotification(w.Type),
		Titre:       w.Titre,
		Message:     w.Message,
		RessourceID: firstNonEmpty(w.RessourceID, w.RessourceIDAlt),
		CreatedAt:   firstTime(w.CreatedAt, w.CreatedAtAlt),
	}
	return nil
}

// CanonicalID retourne l'identifiant canonique de l'enregistrement.
func (n Notification) CanonicalID() string { return n.ID }
