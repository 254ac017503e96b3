package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// ListZones retourne le découpage administratif (communes et leurs
// arrondissements), utilisé à la création des comptes d'agents.
func (c *Client) ListZones(ctx context.Context) ([]model.Zone, error) {
	data, err := c.do(ctx, http.MethodGet, "/zones", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("liste des zones: %w", err)
	}
	items, _, err := decodeList[model.Zone](data, "zones")
	if err != nil {
		return nil, fmt.Errorf("liste des zones: %w", err)
	}
	return items, nil
}
