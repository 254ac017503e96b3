package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// PropositionFilter — filtres de la liste des propositions.
type PropositionFilter struct {
	Statut  model.StatutProposition
	Commune string
	Page    int
	Limit   int
}

func (f PropositionFilter) query() url.Values {
	q := url.Values{}
	if f.Statut != "" {
		q.Set("statut", string(f.Statut))
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

// ListPropositions retourne les propositions selon les filtres.
func (c *Client) ListPropositions(ctx context.Context, filter PropositionFilter) ([]model.Proposition, *model.Pagination, error) {
	data, err := c.do(ctx, http.MethodGet, "/propositions", filter.query(), nil, true)
	if err != nil {
		return nil, nil, fmt.Errorf("liste des propositions: %w", err)
	}
	items, pagination, err := decodeList[model.Proposition](data, "propositions")
	if err != nil {
		return nil, nil, fmt.Errorf("liste des propositions: %w", err)
	}
	return items, pagination, nil
}

// ApprovePropositionResult — réponse d'approbation : la proposition mise
// à jour et l'infrastructure créée à partir d'elle.
type ApprovePropositionResult struct {
	Proposition    model.Proposition     `json:"proposition"`
	Infrastructure *model.Infrastructure `json:"infrastructure"`
}

// ApproveProposition approuve une proposition. L'API crée alors
// l'infrastructure correspondante et la renvoie.
func (c *Client) ApproveProposition(ctx context.Context, id string) (*ApprovePropositionResult, error) {
	path := "/propositions/" + url.PathEscape(id) + "/approuver"
	var result ApprovePropositionResult
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("approbation de la proposition %s: %w", id, err)
	}
	return &result, nil
}

// RejectProposition rejette une proposition avec un motif optionnel.
func (c *Client) RejectProposition(ctx context.Context, id, motif string) error {
	path := "/propositions/" + url.PathEscape(id) + "/rejeter"
	var body map[string]string
	if motif != "" {
		body = map[string]string{"motif": motif}
	}
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("rejet de la proposition %s: %w", id, err)
	}
	return nil
}
