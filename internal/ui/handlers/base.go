package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/notifier"
	"github.com/cotonav/dashboard-module/internal/repository"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

// clé de la préférence portant l'annonce affichée au personnel
const annonceKey = "annonce"

// Common — dépendances partagées par tous les handlers de pages :
// sessions, flux de notifications, marques de lecture et préférences.
type Common struct {
	Sessions *auth.SessionManager
	Feed     *notifier.Feed
	Reads    repository.NotificationReadsRepository
	Settings repository.UISettingsRepository
	Logger   *slog.Logger
}

// Base construit les données communes de la page : menu du rôle,
// identité, compteur de notifications non lues et messages flash. La
// lecture des marques est best effort.
func (c *Common) Base(r *http.Request, titre, activePath string) pages.BaseData {
	data := pages.BaseData{
		Titre:      titre,
		ActivePath: activePath,
		Flash:      flashFrom(r),
	}

	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return data
	}

	role := rbac.Role(session.Role)
	data.Menu = rbac.MenuFor(role)
	data.NomComplet = session.Prenom + " " + session.Nom
	data.Role = session.Role

	if c.Feed != nil && c.Reads != nil {
		readIDs, err := c.Reads.ReadIDs(r.Context(), session.UserID)
		if err != nil {
			c.Logger.Warn("lecture des marques de notifications impossible",
				slog.Any("err", err))
			readIDs = nil
		}
		data.NonLues = c.Feed.UnreadCount(role, readIDs)
	}

	if c.Settings != nil {
		if setting, err := c.Settings.Get(r.Context(), annonceKey); err == nil {
			data.Annonce = setting.Value
		}
	}
	return data
}
