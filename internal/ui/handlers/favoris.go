package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/controller"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const favorisPath = "/dashboard/favoris"

// FavorisHandler — infrastructures favorites. La vue est resondée par
// le poller ; le retrait d'un favori passe par une mutation optimiste
// du contrôleur.
type FavorisHandler struct {
	common  *Common
	api     *apiclient.Client
	favoris *controller.ListController[model.Infrastructure]
	logger  *slog.Logger
}

// NewFavorisHandler crée le handler des favoris.
func NewFavorisHandler(common *Common, api *apiclient.Client, favoris *controller.ListController[model.Infrastructure], logger *slog.Logger) *FavorisHandler {
	return &FavorisHandler{
		common:  common,
		api:     api,
		favoris: favoris,
		logger:  logger.With(slog.String("component", "ui.favoris")),
	}
}

// HandleList traite GET /dashboard/favoris.
func (h *FavorisHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snap := h.favoris.Snapshot()
	if !snap.Loaded {
		if err := h.favoris.Load(r.Context()); err != nil {
			if handlePageError(w, r, h.common.Sessions, h.logger, err) {
				return
			}
		}
		snap = h.favoris.Snapshot()
	}

	data := pages.FavorisData{
		Base:  h.common.Base(r, "Favoris", favorisPath),
		Items: snap.Items,
	}
	if snap.Err != nil {
		data.Base.Flash.Erreur = "Impossible de rafraîchir les favoris, données précédentes affichées"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Favoris(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleRemove traite POST /dashboard/favoris/{id}/retirer — mutation
// optimiste : le favori disparaît immédiatement de la copie, la
// réconciliation suit en arrière-plan.
func (h *FavorisHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.favoris.MutateRemove(r.Context(), id,
		func(ctx context.Context) error { return h.api.RemoveFavorite(ctx, id) },
	)
	if err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, favorisPath, err)
		return
	}

	redirectWithInfo(w, r, favorisPath, "Favori retiré")
}
