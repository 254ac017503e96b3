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

const propositionsPath = "/dashboard/propositions"

// PropositionsHandler — modération des propositions citoyennes.
type PropositionsHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewPropositionsHandler crée le handler des propositions.
func NewPropositionsHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *PropositionsHandler {
	return &PropositionsHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.propositions")),
	}
}

// HandleList traite GET /dashboard/propositions.
func (h *PropositionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	filter := apiclient.PropositionFilter{
		Statut: model.StatutProposition(r.URL.Query().Get("statut")),
		Page:   pageParam(r),
	}
	if session != nil && rbac.ZoneScoped(rbac.Role(session.Role)) {
		filter.Commune = session.Commune
	}

	items, _, err := h.api.ListPropositions(r.Context(), filter)
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des propositions impossible", slog.Any("err", err))
	}

	data := pages.PropositionsData{
		Base:         h.common.Base(r, "Propositions", propositionsPath),
		Items:        items,
		FiltreStatut: r.URL.Query().Get("statut"),
		PeutModerer:  session != nil && rbac.CanModerate(rbac.Role(session.Role)),
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les propositions"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Propositions(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleApprove traite POST /dashboard/propositions/{id}/approuver.
// L'approbation crée l'infrastructure correspondante côté backend, son
// nom est remonté dans le message de confirmation.
func (h *PropositionsHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.api.ApproveProposition(r.Context(), id)
	if err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, propositionsPath, err)
		return
	}

	msg := "Proposition approuvée"
	if result.Infrastructure != nil && result.Infrastructure.Nom != "" {
		msg = "Proposition approuvée, infrastructure « " + result.Infrastructure.Nom + " » créée"
	}
	h.logger.Info("proposition approuvée", slog.String("id", id))
	redirectWithInfo(w, r, propositionsPath, msg)
}

// HandleReject traite POST /dashboard/propositions/{id}/rejeter, avec
// un motif optionnel saisi dans le formulaire.
func (h *PropositionsHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, propositionsPath, "Formulaire invalide")
		return
	}
	motif := r.PostFormValue("motif")

	if err := h.api.RejectProposition(r.Context(), id, motif); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, propositionsPath, err)
		return
	}

	h.logger.Info("proposition rejetée", slog.String("id", id))
	redirectWithInfo(w, r, propositionsPath, "Proposition rejetée")
}
