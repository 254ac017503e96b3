package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const profilPath = "/dashboard/profil"

// ProfilHandler — page Mon Profil.
type ProfilHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewProfilHandler crée le handler du profil courant.
func NewProfilHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *ProfilHandler {
	return &ProfilHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.profil")),
	}
}

// HandleShow traite GET /dashboard/profil. Si le backend est
// injoignable, la page est rendue depuis les données de session.
func (h *ProfilHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	var utilisateur model.Utilisateur
	user, err := h.api.GetProfile(r.Context())
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement du profil impossible", slog.Any("err", err))
		if session != nil {
			utilisateur = model.Utilisateur{
				ID:             session.UserID,
				Nom:            session.Nom,
				Prenom:         session.Prenom,
				Email:          session.Email,
				Role:           session.Role,
				Commune:        session.Commune,
				Arrondissement: session.Arrondissement,
			}
		}
	} else {
		utilisateur = *user
	}

	data := pages.ProfilData{
		Base:        h.common.Base(r, "Mon Profil", profilPath),
		Utilisateur: utilisateur,
	}
	if err != nil {
		data.Base.Flash.Erreur = "Profil affiché depuis la session, le serveur est injoignable"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Profil(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}
