package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// SignalementFilter — filtres de la liste des signalements.
type SignalementFilter struct {
	Statut model.StatutSignalement
	Type   model.TypeSignalement
	// Commune : filtrage par zone (agents communaux)
	Commune string
	Page    int
	Limit   int
}

func (f SignalementFilter) query() url.Values {
	q := url.Values{}
	if f.Statut != "" {
		q.Set("statut", string(f.Statut))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Commune != "" {
		q.Set("commune", f.Commune)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListSignalements retourne les signalements selon les filtres.
func (c *Client) ListSignalements(ctx context.Context, filter SignalementFilter) ([]model.Signalement, *model.Pagination, error) {
	data, err := c.do(ctx, http.MethodGet, "/signalements", filter.query(), nil, true)
	if err != nil {
		return nil, nil, fmt.Errorf("liste des signalements: %w", err)
	}
	items, pagination, err := decodeList[model.Signalement](data, "signalements")
	if err != nil {
		return nil, nil, fmt.Errorf("liste des signalements: %w", err)
	}
	return items, pagination, nil
}

// UpdateSignalementStatut fait passer un signalement au statut donné,
// avec un commentaire de traitement optionnel. Les transitions admises
// sont vérifiées côté appelant (model.StatutSignalement.CanTransition)
// et côté serveur.
func (c *Client) UpdateSignalementStatut(ctx context.Context, id string, statut model.StatutSignalement, commentaire string) error {
	body := map[string]string{"statut": string(statut)}
	if commentaire != "" {
		body["commentaire_traitement"] = commentaire
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/signalements/"+url.PathEscape(id), nil, body, nil); err != nil {
		return fmt.Errorf("mise à jour du signalement %s: %w", id, err)
	}
	return nil
}
