// Package apiclient — client HTTP de l'API REST CotoNav.
//
// Toutes les données de la plateforme (infrastructures, propositions,
// signalements, avis, utilisateurs, statistiques) viennent de cette
// API : le dashboard n'en possède aucune copie canonique.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// TokenProvider fournit le jeton Bearer pour une requête. Le jeton de
// la session UI est prioritaire via le contexte ; à défaut le compte
// de service est utilisé (rafraîchissements en arrière-plan).
type TokenProvider func(ctx context.Context) (string, error)

type ctxKey int

const tokenCtxKey ctxKey = iota

// WithToken place un jeton Bearer dans le contexte. Le middleware de
// session l'utilise pour propager le jeton de l'utilisateur connecté.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext retourne le jeton Bearer du contexte, s'il existe.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey).(string)
	return token, ok && token != ""
}

// Client — client de l'API CotoNav.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	logger     *slog.Logger
}

// New crée un client de l'API CotoNav.
func New(baseURL string, tokens TokenProvider, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: logger.With(slog.String("component", "apiclient")),
	}
}

// NewWithHTTPClient crée un client avec un http.Client fourni (tests,
// TLS personnalisé).
func NewWithHTTPClient(baseURL string, tokens TokenProvider, httpClient *http.Client, logger *slog.Logger) *Client {
	c := New(baseURL, tokens, logger)
	c.httpClient = httpClient
	return c
}

// doJSON exécute une requête authentifiée avec corps JSON optionnel et
// décode la réponse dans out (ignoré si out est nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, err := c.do(ctx, method, path, query, body, true)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("décodage de la réponse %s %s: %w", method, path, err)
	}
	return nil
}

// doPublic exécute une requête sans jeton (login).
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, nil, body, false)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("décodage de la réponse %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, withAuth bool) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encodage du corps de requête: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("création de la requête %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if withAuth {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtention du jeton: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appel %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lecture de la réponse %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFromResponse(resp.StatusCode, data)
	}
	return data, nil
}

// listEnvelope — enveloppe paginée renvoyée par certains endpoints.
// D'autres renvoient un tableau JSON nu, les deux formes sont admises.
func decodeList[T any](data []byte, resourceKeys ...string) ([]T, *model.Pagination, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, nil
	}

	// Tableau nu
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, fmt.Errorf("décodage du tableau: %w", err)
		}
		return items, nil, nil
	}

	// Enveloppe : la liste arrive sous data, items ou le nom de la
	// ressource selon l'endpoint
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("décodage de l'enveloppe: %w", err)
	}

	keys := append([]string{"data", "items"}, resourceKeys...)
	var items []T
	found := false
	for _, key := range keys {
		payload, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, nil, fmt.Errorf("décodage de %s: %w", key, err)
		}
		found = true
		break
	}
	if !found {
		return nil, nil, fmt.Errorf("enveloppe sans liste reconnaissable (clés essayées : %s)", strings.Join(keys, ", "))
	}

	var pagination *model.Pagination
	if payload, ok := raw["pagination"]; ok {
		pagination = &model.Pagination{}
		if err := json.Unmarshal(payload, pagination); err != nil {
			return nil, nil, fmt.Errorf("décodage de la pagination: %w", err)
		}
	}
	return items, pagination, nil
}
