package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// AvisFilter — filtres de la liste des avis (modération paginée).
type AvisFilter struct {
	// Approuve : nil = tous, sinon filtre sur l'état de modération
	Approuve *bool
	Page     int
	Limit    int
}

func (f AvisFilter) query() url.Values {
	q := url.Values{}
	if f.Approuve != nil {
		q.Set("approuve", strconv.FormatBool(*f.Approuve))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListAvis retourne les avis selon les filtres, avec pagination.
func (c *Client) ListAvis(ctx context.Context, filter AvisFilter) ([]model.Avis, *model.Pagination, error) {
	data, err := c.do(ctx, http.MethodGet, "/avis", filter.query(), nil, true)
	if err != nil {
		return nil, nil, fmt.Errorf("liste des avis: %w", err)
	}
	items, pagination, err := decodeList[model.Avis](data, "avis")
	if err != nil {
		return nil, nil, fmt.Errorf("liste des avis: %w", err)
	}
	return items, pagination, nil
}

// ModerateAvis approuve ou masque un avis.
func (c *Client) ModerateAvis(ctx context.Context, id string, approuve bool) error {
	body := map[string]bool{"approuve": approuve}
	if err := c.doJSON(ctx, http.MethodPatch, "/avis/"+url.PathEscape(id), nil, body, nil); err != nil {
		return fmt.Errorf("modération de l'avis %s: %w", id, err)
	}
	return nil
}

// DeleteAvis supprime définitivement un avis.
func (c *Client) DeleteAvis(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/avis/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("suppression de l'avis %s: %w", id, err)
	}
	return nil
}
