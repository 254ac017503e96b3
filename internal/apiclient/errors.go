package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError — erreur renvoyée par l'API CotoNav, avec le statut HTTP et
// le message du corps de réponse lorsqu'il est présent.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API CotoNav : %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API CotoNav : %d %s", e.Status, http.StatusText(e.Status))
}

// apiErrorBody — formes de corps d'erreur renvoyées par l'API.
type apiErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// apiErrorFromResponse construit un *APIError depuis un statut et un
// corps de réponse. Le corps est optionnel et peut ne pas être du JSON.
func apiErrorFromResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiErr
	}
	apiErr.Message = parsed.Message
	apiErr.Code = parsed.Code
	if parsed.Error != nil {
		if apiErr.Message == "" {
			apiErr.Message = parsed.Error.Message
		}
		if apiErr.Code == "" {
			apiErr.Code = parsed.Error.Code
		}
	}
	return apiErr
}

// IsUnauthorized indique une réponse 401 (session expirée, jeton
// invalide). L'UI force alors la déconnexion.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsForbidden indique une réponse 403 (capacité refusée côté serveur).
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// IsNotFound indique une réponse 404 (ressource disparue, par exemple
// déjà traitée par un autre membre du personnel).
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
