// Package rbac — règles de visibilité et de capacité par rôle.
//
// Les fonctions sont pures et totales : un rôle inconnu obtient
// toujours le résultat le plus restrictif (menu vide, aucune
// capacité), jamais de panique.
package rbac

import "github.com/cotonav/dashboard-module/internal/domain/model"

// Role — rôle d'un compte de la plateforme.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleAgentCommunal Role = "agent_communal"
	RoleCitoyen       Role = "citoyen"
)

// MenuEntry — entrée du menu latéral du dashboard.
type MenuEntry struct {
	// Libellé affiché
	Label string
	// Chemin de la page
	Path string
	// Icône (nom de l'icône de la feuille de styles)
	Icon string
}

// Entrées du menu dans l'ordre d'affichage.
var (
	menuDashboard = MenuEntry{Label: "Tableau de bord", Path: "/dashboard", Icon: "home"}
	menuInfras    = MenuEntry{Label: "Infrastructures", Path: "/dashboard/infrastructures", Icon: "building"}
	menuFavoris   = MenuEntry{Label: "Favoris", Path: "/dashboard/favoris", Icon: "star"}
	menuPropos    = MenuEntry{Label: "Propositions", Path: "/dashboard/propositions", Icon: "inbox"}
	menuSignals   = MenuEntry{Label: "Signalements", Path: "/dashboard/signalements", Icon: "alert"}
	menuAvis      = MenuEntry{Label: "Avis", Path: "/dashboard/avis", Icon: "message"}
	menuUsers     = MenuEntry{Label: "Utilisateurs", Path: "/dashboard/utilisateurs", Icon: "users"}
	menuProfils   = MenuEntry{Label: "Gestion des Profils", Path: "/dashboard/profils", Icon: "shield"}
	menuStats     = MenuEntry{Label: "Statistiques", Path: "/dashboard/statistiques", Icon: "chart"}
	menuMonProfil = MenuEntry{Label: "Mon Profil", Path: "/dashboard/profil", Icon: "user"}
)

// MenuFor retourne les entrées de menu autorisées pour le rôle, dans
// l'ordre d'affichage. Les agents communaux ne voient ni le tableau de
// bord ni les statistiques ; la gestion des profils est réservée aux
// super_admin et admin. Un rôle inconnu ou citoyen n'a aucun menu.
func MenuFor(role Role) []MenuEntry {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return []MenuEntry{
			menuDashboard, menuInfras, menuFavoris, menuPropos,
			menuSignals, menuAvis, menuUsers, menuProfils,
			menuStats, menuMonProfil,
		}
	case RoleAgentCommunal:
		return []MenuEntry{
			menuInfras, menuFavoris, menuPropos,
			menuSignals, menuAvis, menuUsers, menuMonProfil,
		}
	}
	return nil
}

// CanAccessPath indique si le rôle peut consulter la page. Les pages
// hors menu sont refusées.
func CanAccessPath(role Role, path string) bool {
	for _, e := range MenuFor(role) {
		if e.Path == path {
			return true
		}
	}
	return false
}

// AllowedNotificationTypes retourne les catégories de notifications
// visibles par le rôle. Les agents communaux ne reçoivent pas les
// événements de gestion des utilisateurs.
func AllowedNotificationTypes(role Role) []model.TypeNotification {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return []model.TypeNotification{
			model.NotificationProposition,
			model.NotificationSignalement,
			model.NotificationFavori,
			model.NotificationUtilisateur,
		}
	case RoleAgentCommunal:
		return []model.TypeNotification{
			model.NotificationProposition,
			model.NotificationSignalement,
			model.NotificationFavori,
		}
	}
	return nil
}

// CanSeeNotification indique si le rôle peut voir une notification du
// type donné.
func CanSeeNotification(role Role, t model.TypeNotification) bool {
	for _, allowed := range AllowedNotificationTypes(role) {
		if allowed == t {
			return true
		}
	}
	return false
}

// IsStaff indique si le rôle appartient au personnel du dashboard.
func IsStaff(role Role) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleAgentCommunal:
		return true
	}
	return false
}

// CanModerate indique si le rôle peut modérer du contenu citoyen
// (propositions, signalements, avis, validation d'infrastructures).
func CanModerate(role Role) bool {
	return IsStaff(role)
}

// CanManageProfiles indique si le rôle peut créer et supprimer des
// comptes du personnel.
func CanManageProfiles(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// CanManageUsers indique si le rôle peut activer/désactiver des comptes
// et changer des rôles.
func CanManageUsers(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// CanSeeStatistics indique si le rôle accède aux statistiques globales.
func CanSeeStatistics(role Role) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// ZoneScoped indique si les listes du rôle sont restreintes à sa zone
// d'affectation.
func ZoneScoped(role Role) bool {
	return role == RoleAgentCommunal
}

// AssignableRoles retourne les rôles qu'un compte peut attribuer à un
// autre. Seul un super_admin peut nommer un admin.
func AssignableRoles(role Role) []Role {
	switch role {
	case RoleSuperAdmin:
		return []Role{RoleAdmin, RoleAgentCommunal, RoleCitoyen}
	case RoleAdmin:
		return []Role{RoleAgentCommunal, RoleCitoyen}
	}
	return nil
}
