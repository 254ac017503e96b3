package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const utilisateursPath = "/dashboard/utilisateurs"

// UtilisateursHandler — gestion des comptes de la plateforme.
type UtilisateursHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewUtilisateursHandler crée le handler des utilisateurs.
func NewUtilisateursHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *UtilisateursHandler {
	return &UtilisateursHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.utilisateurs")),
	}
}

// HandleList traite GET /dashboard/utilisateurs.
func (h *UtilisateursHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	items, _, err := h.api.ListUtilisateurs(r.Context(), apiclient.UtilisateurFilter{
		Role:  r.URL.Query().Get("role"),
		Actif: boolParam(r, "actif"),
		Page:  pageParam(r),
	})
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des utilisateurs impossible", slog.Any("err", err))
	}

	role := rbac.Role("")
	if session != nil {
		role = rbac.Role(session.Role)
	}

	data := pages.UtilisateursData{
		Base:              h.common.Base(r, "Utilisateurs", utilisateursPath),
		Items:             items,
		FiltreRole:        r.URL.Query().Get("role"),
		FiltreActif:       r.URL.Query().Get("actif"),
		PeutGerer:         rbac.CanManageUsers(role),
		RolesAttribuables: rbac.AssignableRoles(role),
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les utilisateurs"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Utilisateurs(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleToggleActif traite POST /dashboard/utilisateurs/{id}/actif.
func (h *UtilisateursHandler) HandleToggleActif(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || !rbac.CanManageUsers(rbac.Role(session.Role)) {
		redirectWithError(w, r, utilisateursPath, "Action refusée : droits insuffisants")
		return
	}

	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, utilisateursPath, "Formulaire invalide")
		return
	}
	actif := r.PostFormValue("actif") == "true"

	if err := h.api.SetUtilisateurActif(r.Context(), id, actif); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, utilisateursPath, err)
		return
	}

	msg := "Compte désactivé"
	if actif {
		msg = "Compte activé"
	}
	h.logger.Info("activation modifiée", slog.String("id", id), slog.Bool("actif", actif))
	redirectWithInfo(w, r, utilisateursPath, msg)
}

// HandleChangeRole traite POST /dashboard/utilisateurs/{id}/role. Le
// rôle cible doit figurer parmi les rôles attribuables par le compte
// courant (un admin ne peut pas nommer un autre admin).
func (h *UtilisateursHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || !rbac.CanManageUsers(rbac.Role(session.Role)) {
		redirectWithError(w, r, utilisateursPath, "Action refusée : droits insuffisants")
		return
	}

	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, utilisateursPath, "Formulaire invalide")
		return
	}
	nouveauRole := r.PostFormValue("role")

	autorise := false
	for _, candidat := range rbac.AssignableRoles(rbac.Role(session.Role)) {
		if string(candidat) == nouveauRole {
			autorise = true
			break
		}
	}
	if !autorise {
		h.logger.Warn("attribution de rôle refusée",
			slog.String("id", id),
			slog.String("role_demande", nouveauRole),
			slog.String("role_demandeur", session.Role))
		redirectWithError(w, r, utilisateursPath, "Vous ne pouvez pas attribuer ce rôle")
		return
	}

	if err := h.api.SetUtilisateurRole(r.Context(), id, nouveauRole); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, utilisateursPath, err)
		return
	}

	h.logger.Info("rôle modifié", slog.String("id", id), slog.String("role", nouveauRole))
	redirectWithInfo(w, r, utilisateursPath, "Rôle modifié")
}
