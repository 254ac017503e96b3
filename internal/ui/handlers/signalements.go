package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const signalementsPath = "/dashboard/signalements"

// SignalementsHandler — traitement des signalements citoyens.
type SignalementsHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewSignalementsHandler crée le handler des signalements.
func NewSignalementsHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *SignalementsHandler {
	return &SignalementsHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.signalements")),
	}
}

// HandleList traite GET /dashboard/signalements. Les agents communaux
// ne voient que les signalements de leur commune (le serveur applique
// la même restriction).
func (h *SignalementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	filter := apiclient.SignalementFilter{
		Statut: model.StatutSignalement(r.URL.Query().Get("statut")),
		Type:   model.TypeSignalement(r.URL.Query().Get("type")),
		Page:   pageParam(r),
	}
	if session != nil && rbac.ZoneScoped(rbac.Role(session.Role)) {
		filter.Commune = session.Commune
	}

	items, _, err := h.api.ListSignalements(r.Context(), filter)
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des signalements impossible", slog.Any("err", err))
	}

	data := pages.SignalementsData{
		Base:         h.common.Base(r, "Signalements", signalementsPath),
		Items:        items,
		FiltreStatut: r.URL.Query().Get("statut"),
		PeutModerer:  session != nil && rbac.CanModerate(rbac.Role(session.Role)),
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les signalements"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Signalements(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleUpdateStatut traite POST /dashboard/signalements/{id}/statut.
// La transition est contrôlée contre le cycle de vie avant l'appel au
// backend : un statut terminal n'admet plus d'action.
func (h *SignalementsHandler) HandleUpdateStatut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, signalementsPath, "Formulaire invalide")
		return
	}

	depuis := model.StatutSignalement(r.PostFormValue("statut_actuel"))
	vers := model.StatutSignalement(r.PostFormValue("statut"))
	commentaire := r.PostFormValue("commentaire")

	if !vers.Valide() {
		redirectWithError(w, r, signalementsPath, "Statut demandé inconnu")
		return
	}
	if !depuis.CanTransition(vers) {
		h.logger.Warn("transition de statut refusée",
			slog.String("id", id),
			slog.String("depuis", string(depuis)),
			slog.String("vers", string(vers)))
		redirectWithError(w, r, signalementsPath, "Transition de statut non autorisée")
		return
	}

	if err := h.api.UpdateSignalementStatut(r.Context(), id, vers, commentaire); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, signalementsPath, err)
		return
	}

	h.logger.Info("signalement mis à jour",
		slog.String("id", id), slog.String("statut", string(vers)))
	redirectWithInfo(w, r, signalementsPath, "Signalement mis à jour")
}
