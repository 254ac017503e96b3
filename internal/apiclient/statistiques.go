package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// GetStatistiques retourne les agrégats globaux du tableau de bord.
func (c *Client) GetStatistiques(ctx context.Context) (*model.Statistiques, error) {
	var stats model.Statistiques
	if err := c.doJSON(ctx, http.MethodGet, "/statistics", nil, nil, &stats); err != nil {
		return nil, fmt.Errorf("statistiques globales: %w", err)
	}
	return &stats, nil
}

// ListStatistiquesCommunes retourne les agrégats par commune.
func (c *Client) ListStatistiquesCommunes(ctx context.Context) ([]model.StatistiqueZone, error) {
	data, err := c.do(ctx, http.MethodGet, "/statistics/communes", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("statistiques par commune: %w", err)
	}
	items, _, err := decodeList[model.StatistiqueZone](data, "communes")
	if err != nil {
		return nil, fmt.Errorf("statistiques par commune: %w", err)
	}
	return items, nil
}

// ListStatistiquesArrondissements retourne les agrégats des
// arrondissements d'une commune.
func (c *Client) ListStatistiquesArrondissements(ctx context.Context, commune string) ([]model.StatistiqueZone, error) {
	q := url.Values{"commune": []string{commune}}
	data, err := c.do(ctx, http.MethodGet, "/statistics/arrondissements", q, nil, true)
	if err != nil {
		return nil, fmt.Errorf("statistiques des arrondissements de %s: %w", commune, err)
	}
	items, _, err := decodeList[model.StatistiqueZone](data, "arrondissements")
	if err != nil {
		return nil, fmt.Errorf("statistiques des arrondissements de %s: %w", commune, err)
	}
	return items, nil
}

// ListStatistiquesVillages retourne les agrégats des villages d'un
// arrondissement.
func (c *Client) ListStatistiquesVillages(ctx context.Context, arrondissement string) ([]model.StatistiqueZone, error) {
	q := url.Values{"arrondissement": []string{arrondissement}}
	data, err := c.do(ctx, http.MethodGet, "/statistics/villages", q, nil, true)
	if err != nil {
		return nil, fmt.Errorf("statistiques des villages de %s: %w", arrondissement, err)
	}
	items, _, err := decodeList[model.StatistiqueZone](data, "villages")
	if err != nil {
		return nil, fmt.Errorf("statistiques des villages de %s: %w", arrondissement, err)
	}
	return items, nil
}
