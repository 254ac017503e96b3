package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// ListAdmins retourne les comptes administrateurs.
func (c *Client) ListAdmins(ctx context.Context) ([]model.Utilisateur, error) {
	data, err := c.do(ctx, http.MethodGet, "/roles/admins", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("liste des administrateurs: %w", err)
	}
	items, _, err := decodeList[model.Utilisateur](data, "admins", "users")
	if err != nil {
		return nil, fmt.Errorf("liste des administrateurs: %w", err)
	}
	return items, nil
}

// ListAgents retourne les comptes agents communaux.
func (c *Client) ListAgents(ctx context.Context) ([]model.Utilisateur, error) {
	data, err := c.do(ctx, http.MethodGet, "/roles/agents", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("liste des agents: %w", err)
	}
	items, _, err := decodeList[model.Utilisateur](data, "agents", "users")
	if err != nil {
		return nil, fmt.Errorf("liste des agents: %w", err)
	}
	return items, nil
}

// GetProfile retourne le profil du compte courant (/profile/me).
func (c *Client) GetProfile(ctx context.Context) (*model.Utilisateur, error) {
	var user model.Utilisateur
	if err := c.doJSON(ctx, http.MethodGet, "/profile/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("profil courant: %w", err)
	}
	return &user, nil
}

// GetProfileByID retourne le profil d'un compte du personnel.
func (c *Client) GetProfileByID(ctx context.Context, id string) (*model.Utilisateur, error) {
	var user model.Utilisateur
	if err := c.doJSON(ctx, http.MethodGet, "/profile/"+url.PathEscape(id), nil, nil, &user); err != nil {
		return nil, fmt.Errorf("profil %s: %w", id, err)
	}
	return &user, nil
}

// CreateStaffRequest — création d'un compte du personnel (admin ou
// agent communal avec zone d'affectation).
type CreateStaffRequest struct {
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	Email          string `json:"email"`
	Telephone      string `json:"telephone,omitempty"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Commune        string `json:"commune,omitempty"`
	Arrondissement string `json:"arrondissement,omitempty"`
}

// CreateStaff crée un compte du personnel et retourne le compte créé.
func (c *Client) CreateStaff(ctx context.Context, req CreateStaffRequest) (*model.Utilisateur, error) {
	var user model.Utilisateur
	if err := c.doJSON(ctx, http.MethodPost, "/profile", nil, req, &user); err != nil {
		return nil, fmt.Errorf("création du compte %s: %w", req.Email, err)
	}
	return &user, nil
}

// DeleteStaff supprime un compte du personnel.
func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/profile/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("suppression du compte %s: %w", id, err)
	}
	return nil
}
