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

const infrastructuresPath = "/dashboard/infrastructures"

// InfrastructuresHandler — liste, fiche, modification, validation et
// suppression des infrastructures.
type InfrastructuresHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewInfrastructuresHandler crée le handler des infrastructures.
func NewInfrastructuresHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *InfrastructuresHandler {
	return &InfrastructuresHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.infrastructures")),
	}
}

// filter construit le filtre de liste depuis la requête. Les agents
// communaux sont restreints à leur commune d'affectation.
func (h *InfrastructuresHandler) filter(r *http.Request) apiclient.InfrastructureFilter {
	f := apiclient.InfrastructureFilter{
		Type:   r.URL.Query().Get("type"),
		Valide: boolParam(r, "valide"),
		Etat:   r.URL.Query().Get("etat"),
		Page:   pageParam(r),
	}
	if session, ok := middleware.SessionFromContext(r.Context()); ok {
		if rbac.ZoneScoped(rbac.Role(session.Role)) {
			f.Commune = session.Commune
		}
	}
	return f
}

// HandleList traite GET /dashboard/infrastructures.
func (h *InfrastructuresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	items, pagination, err := h.api.ListInfrastructures(r.Context(), h.filter(r))
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des infrastructures impossible", slog.Any("err", err))
	}

	data := pages.InfrastructuresData{
		Base:         h.common.Base(r, "Infrastructures", infrastructuresPath),
		Items:        items,
		FiltreType:   r.URL.Query().Get("type"),
		FiltreValide: r.URL.Query().Get("valide"),
		FiltreEtat:   r.URL.Query().Get("etat"),
		Pagination:   pagination,
		PeutModerer:  session != nil && rbac.CanModerate(rbac.Role(session.Role)),
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les infrastructures"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Infrastructures(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleDetail traite GET /dashboard/infrastructures/{id} : fiche de
// l'infrastructure avec le formulaire de modification.
func (h *InfrastructuresHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	infra, err := h.api.GetInfrastructure(r.Context(), id)
	if err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, infrastructuresPath, err)
		return
	}

	data := pages.InfrastructureDetailData{
		Base:        h.common.Base(r, infra.Nom, infrastructuresPath),
		Item:        *infra,
		PeutModerer: session != nil && rbac.CanModerate(rbac.Role(session.Role)),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.InfrastructureDetail(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleUpdate traite POST /dashboard/infrastructures/{id} : applique
// les modifications du formulaire de la fiche.
func (h *InfrastructuresHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil || !rbac.CanModerate(rbac.Role(session.Role)) {
		redirectWithError(w, r, infrastructuresPath, "Action refusée : droits insuffisants")
		return
	}

	id := chi.URLParam(r, "id")
	detailPath := infrastructuresPath + "/" + id
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, detailPath, "Formulaire invalide")
		return
	}

	req := apiclient.UpdateInfrastructureRequest{
		Nom:            r.PostFormValue("nom"),
		Type:           r.PostFormValue("type"),
		Description:    r.PostFormValue("description"),
		Adresse:        r.PostFormValue("adresse"),
		Commune:        r.PostFormValue("commune"),
		Arrondissement: r.PostFormValue("arrondissement"),
		Village:        r.PostFormValue("village"),
		Etat:           r.PostFormValue("etat"),
	}
	if req.Nom == "" || req.Type == "" {
		redirectWithError(w, r, detailPath, "Le nom et le type sont obligatoires")
		return
	}

	var err error
	if req.Latitude, err = parseCoord(r.PostFormValue("latitude")); err != nil {
		redirectWithError(w, r, detailPath, "Coordonnées invalides")
		return
	}
	if req.Longitude, err = parseCoord(r.PostFormValue("longitude")); err != nil {
		redirectWithError(w, r, detailPath, "Coordonnées invalides")
		return
	}

	if err := h.api.UpdateInfrastructure(r.Context(), id, req); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, detailPath, err)
		return
	}

	h.logger.Info("infrastructure modifiée", slog.String("id", id))
	redirectWithInfo(w, r, detailPath, "Infrastructure modifiée")
}

// parseCoord lit une coordonnée GPS du formulaire (vide admis : zéro).
func parseCoord(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// HandleValidate traite POST /dashboard/infrastructures/{id}/valider.
func (h *InfrastructuresHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.api.ValidateInfrastructure(r.Context(), id)
	if err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, infrastructuresPath, err)
		return
	}

	h.logger.Info("infrastructure validée", slog.String("id", id))
	redirectWithInfo(w, r, infrastructuresPath, "Infrastructure validée")
}

// HandleDelete traite POST /dashboard/infrastructures/{id}/supprimer.
func (h *InfrastructuresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.DeleteInfrastructure(r.Context(), id); err != nil {
		handleActionError(w, r, h.common.Sessions, h.logger, infrastructuresPath, err)
		return
	}

	h.logger.Info("infrastructure supprimée", slog.String("id", id))
	redirectWithInfo(w, r, infrastructuresPath, "Infrastructure supprimée")
}
