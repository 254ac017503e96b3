package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// RegisterFCMToken relaie le jeton d'appareil FCM du navigateur au
// backend. L'appelant traite l'échec en best effort.
func (c *Client) RegisterFCMToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	if err := c.doJSON(ctx, http.MethodPost, "/notifications/fcm-token", nil, body, nil); err != nil {
		return fmt.Errorf("enregistrement du jeton FCM: %w", err)
	}
	return nil
}
