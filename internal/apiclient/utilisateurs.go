package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// UtilisateurFilter — filtres de la liste des utilisateurs.
type UtilisateurFilter struct {
	Role string
	// Actif : nil = tous
	Actif *bool
	Page  int
	Limit int
}

func (f UtilisateurFilter) query() url.Values {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Actif != nil {
		q.Set("actif", strconv.FormatBool(*f.Actif))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListUtilisateurs retourne les comptes selon les filtres.
func (c *Client) ListUtilisateurs(ctx context.Context, filter UtilisateurFilter) ([]model.Utilisateur, *model.Pagination, error) {
	data, err := c.do(ctx, http.MethodGet, "/users", filter.query(), nil, true)
	if err != nil {
		return nil, nil, fmt.Errorf("liste des utilisateurs: %w", err)
	}
	items, pagination, err := decodeList[model.Utilisateur](data, "users", "utilisateurs")
	if err != nil {
		return nil, nil, fmt.Errorf("liste des utilisateurs: %w", err)
	}
	return items, pagination, nil
}

// SetUtilisateurActif active ou désactive un compte.
func (c *Client) SetUtilisateurActif(ctx context.Context, id string, actif bool) error {
	body := map[string]bool{"actif": actif}
	path := "/users/" + url.PathEscape(id) + "/actif"
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("changement d'activation de l'utilisateur %s: %w", id, err)
	}
	return nil
}

// SetUtilisateurRole change le rôle d'un compte.
func (c *Client) SetUtilisateurRole(ctx context.Context, id, role string) error {
	body := map[string]string{"role": role}
	path := "/users/" + url.PathEscape(id) + "/role"
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("changement de rôle de l'utilisateur %s: %w", id, err)
	}
	return nil
}
