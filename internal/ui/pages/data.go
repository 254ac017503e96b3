// Package pages — pages templ du dashboard.
//
// Les fichiers *_templ.go sont générés par `templ generate` et ne sont
// pas versionnés.
package pages

import (
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
)

// Flash — messages affichés en haut de page après une action.
type Flash struct {
	Erreur string
	Info   string
}

// BaseData — données communes à toutes les pages connectées : menu
// latéral filtré par rôle, identité et compteur de notifications.
type BaseData struct {
	Titre      string
	Menu       []rbac.MenuEntry
	ActivePath string
	NomComplet string
	Role       string
	NonLues    int
	// Annonce : message affiché à tout le personnel, publié par un
	// super administrateur
	Annonce string
	Flash   Flash
}

// LoginData — page de connexion.
type LoginData struct {
	Erreur string
	// Raison : motif de la redirection (session_expiree, acces_refuse)
	Raison string
}

// DashboardData — tableau de bord (vue sondée toutes les 3 s).
type DashboardData struct {
	Base  BaseData
	Stats model.Statistiques
	// Charge : false tant qu'aucun chargement n'a abouti
	Charge bool
	// DernierRafraichissement : horodatage affiché sous les tuiles
	DernierRafraichissement string
	// PeutPublierAnnonce : formulaire d'annonce (super admin)
	PeutPublierAnnonce bool
}

// InfrastructuresData — liste des infrastructures.
type InfrastructuresData struct {
	Base        BaseData
	Items       []model.Infrastructure
	FiltreType  string
	FiltreValide string
	FiltreEtat  string
	Pagination  *model.Pagination
	PeutModerer bool
}

// InfrastructureDetailData — fiche d'une infrastructure avec son
// formulaire de modification.
type InfrastructureDetailData struct {
	Base        BaseData
	Item        model.Infrastructure
	PeutModerer bool
}

// FavorisData — infrastructures favorites (vue sondée).
type FavorisData struct {
	Base  BaseData
	Items []model.Infrastructure
}

// PropositionsData — modération des propositions.
type PropositionsData struct {
	Base         BaseData
	Items        []model.Proposition
	FiltreStatut string
	PeutModerer  bool
}

// SignalementsData — traitement des signalements.
type SignalementsData struct {
	Base         BaseData
	Items        []model.Signalement
	FiltreStatut string
	PeutModerer  bool
}

// AvisData — modération des avis (paginée).
type AvisData struct {
	Base           BaseData
	Items          []model.Avis
	FiltreApprouve string
	Pagination     *model.Pagination
	Page           int
	PeutModerer    bool
}

// UtilisateursData — gestion des comptes.
type UtilisateursData struct {
	Base            BaseData
	Items           []model.Utilisateur
	FiltreRole      string
	FiltreActif     string
	PeutGerer       bool
	RolesAttribuables []rbac.Role
}

// ProfilsData — gestion des comptes du personnel.
type ProfilsData struct {
	Base           BaseData
	Admins         []model.Utilisateur
	Agents         []model.Utilisateur
	Zones          []model.Zone
	PeutCreerAdmin bool
}

// StatistiquesData — exploration géographique des statistiques.
type StatistiquesData struct {
	Base BaseData
	// Niveau : communes, arrondissements ou villages
	Niveau         string
	Commune        string
	Arrondissement string
	Items          []model.StatistiqueZone
}

// ProfilData — page Mon Profil.
type ProfilData struct {
	Base        BaseData
	Utilisateur model.Utilisateur
}

// NotificationsData — panneau de notifications de l'en-tête.
type NotificationsData struct {
	Items []model.Notification
}
