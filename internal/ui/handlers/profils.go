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

const profilsPath = "/dashboard/profils"

// ProfilsHandler — création et suppression des comptes du personnel.
type ProfilsHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewProfilsHandler crée le handler des profils du personnel.
func NewProfilsHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *ProfilsHandler {
	return &ProfilsHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.profils")),
	}
}

// HandleList traite GET /dashboard/profils : administrateurs, agents
// communaux et le découpage administratif pour le formulaire de
// création.
func (h *ProfilsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	admins, errAdmins := h.api.ListAdmins(r.Context())
	if errAdmins != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, errAdmins) {
			return
		}
		h.logger.Error("chargement des administrateurs impossible", slog.Any("err", errAdmins))
	}

	agents, errAgents := h.api.ListAgents(r.Context())
	if errAgents != nil {
		h.logger.Error("chargement des agents impossible", slog.Any("err", errAgents))
	}

	zones, errZones := h.api.ListZones(r.Context())
	if errZones != nil {
		h.logger.Error("chargement des zones impossible", slog.Any("err", errZones))
	}

	data := pages.ProfilsData{
		Base:           h.common.Base(r, "Profils", profilsPath),
		Admins:         admins,
		Agents:         agents,
		Zones:          zones,
		PeutCreerAdmin: session != nil && rbac.Role(session.Role) == rbac.RoleSuperAdmin,
	}
	if errAdmins != nil || errAgents != nil {
		data.Base.Flash.Erreur = "Impossible de charger la liste du personnel"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Profils(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleCreate traite POST /dashboard/profils. Un admin ne peut créer
// que des agents communaux, un super admin crée les deux. Un agent
// communal exige une commune d'affectation.
func (h *ProfilsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || !rbac.CanManageProfiles(rbac.Role(session.Role)) {
		redirectWithError(w, r, profilsPath, "Action refusée : droits insuffisants")
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, profilsPath, "Formulaire invalide")
		return
	}

	req := apiclient.CreateStaffRequest{
		Nom:            r.PostFormValue("nom"),
		Prenom:         r.PostFormValue("prenom"),
		Email:          r.PostFormValue("email"),
		Telephone:      r.PostFormValue("telephone"),
		Password:       r.PostFormValue("password"),
		Role:           r.PostFormValue("role"),
		Commune:        r.PostFormValue("commune"),
		Arrondissement: r.PostFormValue("arrondissement"),
	}

	if req.Nom == "" || req.Email == "" || req.Password == "" {
		redirectWithError(w, r, profilsPath, "Nom, email et mot de passe sont obligatoires")
		return
	}
	if req.Role != string(rbac.RoleAdmin) && req.Role != string(rbac.RoleAgentCommunal) {
		redirectWithError(w, r, profilsPath, "Rôle demandé invalide")
		return
	}
	if req.Role == string(rbac.RoleAdmin) && rbac.Role(session.Role) != rbac.RoleSuperAdmin {
		h.logger.Warn("création d'administrateur refusée",
			slog.String("demandeur", session.Email))
		redirectWithError(w, r, profilsPath, "Seul un super administrateur peut créer un administrateur")
		return
	}
	if req.Role == string(rbac.RoleAgentCommunal) && req.Commune == "" {
		redirectWithError(w, r, profilsPath, "Un agent communal doit être affecté à une commune")
		return
	}

	user, err := h.api.CreateStaff(r.Context(), req)
	if err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, profilsPath, err)
		return
	}

	h.logger.Info("compte du personnel créé",
		slog.String("id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role))
	redirectWithInfo(w, r, profilsPath, "Compte « "+user.Email+" » créé")
}

// HandleDelete traite POST /dashboard/profils/{id}/supprimer. Le compte
// courant ne peut pas se supprimer lui-même.
func (h *ProfilsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || !rbac.CanManageProfiles(rbac.Role(session.Role)) {
		redirectWithError(w, r, profilsPath, "Action refusée : droits insuffisants")
		return
	}

	id := chi.URLParam(r, "id")
	if id == session.UserID {
		redirectWithError(w, r, profilsPath, "Vous ne pouvez pas supprimer votre propre compte")
		return
	}

	if err := h.api.DeleteStaff(r.Context(), id); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, profilsPath, err)
		return
	}

	h.logger.Info("compte du personnel supprimé", slog.String("id", id))
	redirectWithInfo(w, r, profilsPath, "Compte supprimé")
}
