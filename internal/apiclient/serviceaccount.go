package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ServiceAccount gère le jeton du compte de service du dashboard,
// utilisé par les rafraîchissements en arrière-plan quand aucune
// session utilisateur n'est attachée au contexte. Le jeton est mis en
// cache et renouvelé 30 secondes avant son expiration.
type ServiceAccount struct {
	client   *Client
	email    string
	password string
	logger   *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// durée de validité par défaut quand l'API n'annonce pas d'expiration
const defaultTokenTTL = 15 * time.Minute

// NewServiceAccount crée le gestionnaire de jeton du compte de service.
// Le client passé ne doit servir qu'aux appels de login (il n'a pas
// besoin de TokenProvider).
func NewServiceAccount(client *Client, email, password string, logger *slog.Logger) *ServiceAccount {
	return &ServiceAccount{
		client:   client,
		email:    email,
		password: password,
		logger:   logger.With(slog.String("component", "service-account")),
	}
}

// Token retourne un jeton valide, renouvelé si nécessaire.
func (s *ServiceAccount) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Jeton en cache encore valable
	if s.token != "" && time.Now().Before(s.expiresAt.Add(-30*time.Second)) {
		return s.token, nil
	}

	result, err := s.client.Login(ctx, s.email, s.password)
	if err != nil {
		return "", fmt.Errorf("connexion du compte de service: %w", err)
	}

	ttl := defaultTokenTTL
	if result.ExpiresIn > 0 {
		ttl = time.Duration(result.ExpiresIn) * time.Second
	}
	s.token = result.Token
	s.expiresAt = time.Now().Add(ttl)

	s.logger.Debug("jeton du compte de service renouvelé",
		slog.Time("expires_at", s.expiresAt))
	return s.token, nil
}

// ChainTokenProvider retourne un TokenProvider qui prend le jeton du
// contexte (session UI) s'il existe, sinon celui du compte de service.
func ChainTokenProvider(sa *ServiceAccount) TokenProvider {
	return func(ctx context.Context) (string, error) {
		if token, ok := TokenFromContext(ctx); ok {
			return token, nil
		}
		return sa.Token(ctx)
	}
}
