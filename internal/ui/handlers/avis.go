package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const avisPath = "/dashboard/avis"

// taille de page de la modération des avis
const avisPageSize = 20

// AvisHandler — modération des avis citoyens.
type AvisHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewAvisHandler crée le handler des avis.
func NewAvisHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *AvisHandler {
	return &AvisHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.avis")),
	}
}

// HandleList traite GET /dashboard/avis.
func (h *AvisHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	page := pageParam(r)

	items, pagination, err := h.api.ListAvis(r.Context(), apiclient.AvisFilter{
		Approuve: boolParam(r, "approuve"),
		Page:     page,
		Limit:    avisPageSize,
	})
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des avis impossible", slog.Any("err", err))
	}

	data := pages.AvisData{
		Base:           h.common.Base(r, "Avis", avisPath),
		Items:          items,
		FiltreApprouve: r.URL.Query().Get("approuve"),
		Pagination:     pagination,
		Page:           page,
		PeutModerer:    session != nil && rbac.CanModerate(rbac.Role(session.Role)),
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les avis"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.AvisPage(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// backToAvis conserve la page courante dans la redirection.
func backToAvis(r *http.Request) string {
	if page := pageParam(r); page > 1 {
		return avisPath + "?page=" + strconv.Itoa(page)
	}
	return avisPath
}

// HandleModerate traite POST /dashboard/avis/{id}/moderer — approuve
// ou masque un avis selon le champ approuve du formulaire.
func (h *AvisHandler) HandleModerate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, avisPath, "Formulaire invalide")
		return
	}
	approuve := r.PostFormValue("approuve") == "true"

	if err := h.api.ModerateAvis(r.Context(), id, approuve); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, backToAvis(r), err)
		return
	}

	msg := "Avis masqué"
	if approuve {
		msg = "Avis approuvé"
	}
	h.logger.Info("avis modéré", slog.String("id", id), slog.Bool("approuve", approuve))
	redirectWithInfo(w, r, backToAvis(r), msg)
}

// HandleDelete traite POST /dashboard/avis/{id}/supprimer.
func (h *AvisHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.DeleteAvis(r.Context(), id); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, backToAvis(r), err)
		return
	}

	h.logger.Info("avis supprimé", slog.String("id", id))
	redirectWithInfo(w, r, backToAvis(r), "Avis supprimé")
}
