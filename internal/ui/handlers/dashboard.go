package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/controller"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/repository"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

// DashboardHandler — tableau de bord : tuiles de statistiques, top des
// infrastructures. La vue est resondée en arrière-plan par le poller,
// le handler ne fait que rendre la copie courante.
type DashboardHandler struct {
	common *Common
	stats  *controller.ListController[model.Statistiques]
	refresh repository.RefreshStateRepository
	logger *slog.Logger
}

// NewDashboardHandler crée le handler du tableau de bord.
func NewDashboardHandler(common *Common, stats *controller.ListController[model.Statistiques], refresh repository.RefreshStateRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		common:  common,
		stats:   stats,
		refresh: refresh,
		logger:  logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard traite GET /dashboard.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Premier affichage : chargement de premier plan si la copie est
	// encore vide
	snap := h.stats.Snapshot()
	if !snap.Loaded {
		if err := h.stats.Load(r.Context()); err != nil {
			if handlePageError(w, r, h.common.Sessions, h.logger, err) {
				return
			}
		}
		snap = h.stats.Snapshot()
	}

	session, _ := middleware.SessionFromContext(r.Context())

	data := pages.DashboardData{
		Base:               h.common.Base(r, "Tableau de bord", "/dashboard"),
		Charge:             snap.Loaded,
		PeutPublierAnnonce: session != nil && rbac.Role(session.Role) == rbac.RoleSuperAdmin,
	}
	if len(snap.Items) > 0 {
		data.Stats = snap.Items[0]
	}
	if snap.Err != nil {
		data.Base.Flash.Erreur = "Impossible de rafraîchir les statistiques, données précédentes affichées"
	}

	if h.refresh != nil {
		if state, err := h.refresh.Get(r.Context()); err == nil && state.LastStatsRefreshAt != nil {
			data.DernierRafraichissement = state.LastStatsRefreshAt.Format("15:04:05")
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Dashboard(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleSetAnnonce traite POST /dashboard/annonce — publication du
// message affiché à tout le personnel. Réservé au super administrateur,
// une valeur vide retire l'annonce.
func (h *DashboardHandler) HandleSetAnnonce(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || rbac.Role(session.Role) != rbac.RoleSuperAdmin {
		redirectWithError(w, r, "/dashboard", "Action refusée : droits insuffisants")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dashboard", "Formulaire invalide")
		return
	}

	annonce := r.PostFormValue("annonce")
	if err := h.common.Settings.Upsert(r.Context(), annonceKey, annonce, session.UserID); err != nil {
		h.logger.Error("enregistrement de l'annonce impossible", slog.Any("err", err))
		redirectWithError(w, r, "/dashboard", "Impossible d'enregistrer l'annonce")
		return
	}

	if annonce == "" {
		redirectWithInfo(w, r, "/dashboard", "Annonce retirée")
		return
	}
	h.logger.Info("annonce publiée", slog.String("par", session.UserID))
	redirectWithInfo(w, r, "/dashboard", "Annonce publiée")
}
