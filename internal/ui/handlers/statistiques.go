package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

const statistiquesPath = "/dashboard/statistiques"

// StatistiquesHandler — exploration géographique des statistiques :
// communes, puis arrondissements d'une commune, puis villages d'un
// arrondissement.
type StatistiquesHandler struct {
	common *Common
	api    *apiclient.Client
	logger *slog.Logger
}

// NewStatistiquesHandler crée le handler des statistiques par zone.
func NewStatistiquesHandler(common *Common, api *apiclient.Client, logger *slog.Logger) *StatistiquesHandler {
	return &StatistiquesHandler{
		common: common,
		api:    api,
		logger: logger.With(slog.String("component", "ui.statistiques")),
	}
}

// HandleList traite GET /dashboard/statistiques. Le niveau affiché
// dépend des paramètres : ?commune= descend aux arrondissements,
// ?commune=&arrondissement= descend aux villages.
func (h *StatistiquesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	commune := r.URL.Query().Get("commune")
	arrondissement := r.URL.Query().Get("arrondissement")

	var (
		items  []model.StatistiqueZone
		niveau string
		err    error
	)
	switch {
	case arrondissement != "":
		niveau = "villages"
		items, err = h.api.ListStatistiquesVillages(r.Context(), arrondissement)
	case commune != "":
		niveau = "arrondissements"
		items, err = h.api.ListStatistiquesArrondissements(r.Context(), commune)
	default:
		niveau = "communes"
		items, err = h.api.ListStatistiquesCommunes(r.Context())
	}
	if err != nil {
		if handlePageError(w, r, h.common.Sessions, h.logger, err) {
			return
		}
		h.logger.Error("chargement des statistiques impossible",
			slog.String("niveau", niveau), slog.Any("err", err))
	}

	data := pages.StatistiquesData{
		Base:           h.common.Base(r, "Statistiques", statistiquesPath),
		Niveau:         niveau,
		Commune:        commune,
		Arrondissement: arrondissement,
		Items:          items,
	}
	if err != nil {
		data.Base.Flash.Erreur = "Impossible de charger les statistiques"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Statistiques(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}
