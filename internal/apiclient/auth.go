package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// LoginResult — réponse du endpoint de connexion.
type LoginResult struct {
	Token string `json:"token"`
	// ExpiresIn : durée de validité du jeton en secondes (optionnel)
	ExpiresIn int               `json:"expires_in"`
	User      model.Utilisateur `json:"user"`
}

// Login authentifie un compte par email/mot de passe et retourne le
// jeton Bearer et l'utilisateur. Appel sans authentification.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.doPublic(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, fmt.Errorf("connexion: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("connexion: réponse sans jeton")
	}
	return &result, nil
}

// Me retourne le profil du compte authentifié par le jeton du contexte.
func (c *Client) Me(ctx context.Context) (*model.Utilisateur, error) {
	var user model.Utilisateur
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("profil du compte: %w", err)
	}
	return &user, nil
}

// RealtimeToken retourne le jeton dérivé donnant accès au flux temps
// réel de la plateforme. Best effort : le flux de notifications
// fonctionne en mode dégradé sans lui.
func (c *Client) RealtimeToken(ctx context.Context) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/firebase-token", nil, nil, &result); err != nil {
		return "", fmt.Errorf("jeton temps réel: %w", err)
	}
	return result.Token, nil
}
