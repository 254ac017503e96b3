package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// InfrastructureFilter — filtres de la liste des infrastructures.
type InfrastructureFilter struct {
	// Type d'équipement (toilette, aire_jeux, centre_sante, ...)
	Type string
	// Valide : nil = toutes, sinon filtre sur l'état de validation
	Valide *bool
	// Etat physique (bon, moyen, mauvais)
	Etat string
	// Commune : filtrage par zone (agents communaux)
	Commune string
	Page    int
	Limit   int
}

func (f InfrastructureFilter) query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Valide != nil {
		q.Set("valide", strconv.FormatBool(*f.Valide))
	}
	if f.Etat != "" {
		q.Set("etat", f.Etat)
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

// ListInfrastructures retourne les infrastructures selon les filtres.
func (c *Client) ListInfrastructures(ctx context.Context, filter InfrastructureFilter) ([]model.Infrastructure, *model.Pagination, error) {
	data, err := c.do(ctx, http.MethodGet, "/infrastructures", filter.query(), nil, true)
	if err != nil {
		return nil, nil, fmt.Errorf("liste des infrastructures: %w", err)
	}
	items, pagination, err := decodeList[model.Infrastructure](data, "infrastructures")
	if err != nil {
		return nil, nil, fmt.Errorf("liste des infrastructures: %w", err)
	}
	return items, pagination, nil
}

// GetInfrastructure retourne une infrastructure par identifiant.
func (c *Client) GetInfrastructure(ctx context.Context, id string) (*model.Infrastructure, error) {
	var inf model.Infrastructure
	if err := c.doJSON(ctx, http.MethodGet, "/infrastructures/"+url.PathEscape(id), nil, nil, &inf); err != nil {
		return nil, fmt.Errorf("infrastructure %s: %w", id, err)
	}
	return &inf, nil
}

// UpdateInfrastructureRequest — champs modifiables d'une
// infrastructure. L'API attend la forme complète, pas un correctif
// partiel.
type UpdateInfrastructureRequest struct {
	Nom            string  `json:"nom"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	Adresse        string  `json:"adresse"`
	Commune        string  `json:"commune"`
	Arrondissement string  `json:"arrondissement"`
	Village        string  `json:"village,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Etat           string  `json:"etat"`
}

// UpdateInfrastructure remplace les champs modifiables d'une
// infrastructure.
func (c *Client) UpdateInfrastructure(ctx context.Context, id string, req UpdateInfrastructureRequest) error {
	if err := c.doJSON(ctx, http.MethodPut, "/infrastructures/"+url.PathEscape(id), nil, req, nil); err != nil {
		return fmt.Errorf("mise à jour de l'infrastructure %s: %w", id, err)
	}
	return nil
}

// ValidateInfrastructure marque une infrastructure comme validée par le
// personnel.
func (c *Client) ValidateInfrastructure(ctx context.Context, id string) error {
	path := "/infrastructures/" + url.PathEscape(id) + "/valider"
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, nil, nil); err != nil {
		return fmt.Errorf("validation de l'infrastructure %s: %w", id, err)
	}
	return nil
}

// DeleteInfrastructure supprime une infrastructure.
func (c *Client) DeleteInfrastructure(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/infrastructures/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("suppression de l'infrastructure %s: %w", id, err)
	}
	return nil
}

// ListFavorites retourne les infrastructures favorites du compte.
func (c *Client) ListFavorites(ctx context.Context) ([]model.Infrastructure, error) {
	data, err := c.do(ctx, http.MethodGet, "/infrastructures/favorites", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("liste des favoris: %w", err)
	}
	items, _, err := decodeList[model.Infrastructure](data, "favorites", "infrastructures")
	if err != nil {
		return nil, fmt.Errorf("liste des favoris: %w", err)
	}
	return items, nil
}

// RemoveFavorite retire une infrastructure des favoris du compte.
func (c *Client) RemoveFavorite(ctx context.Context, id string) error {
	path := "/infrastructures/" + url.PathEscape(id) + "/favorite"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("retrait du favori %s: %w", id, err)
	}
	return nil
}
