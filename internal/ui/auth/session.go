// Package auth — sessions du dashboard et vérification des jetons.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Nom du cookie de session.
const sessionCookieName = "cotonav_dashboard_session"

// Durée de vie par défaut du cookie de session.
const sessionTTL = 12 * time.Hour

// SessionData — contenu de la session d'un membre du personnel,
// chiffré dans le cookie.
type SessionData struct {
	// Token : jeton Bearer de l'API CotoNav
	Token string `json:"token"`
	// ExpiresAt : expiration du jeton (Unix)
	ExpiresAt int64 `json:"expires_at"`
	UserID    string `json:"user_id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	// Zone d'affectation (agents communaux)
	Commune        string `json:"commune,omitempty"`
	Arrondissement string `json:"arrondissement,omitempty"`
	// Realtime : true si un jeton temps réel a été obtenu au login
	Realtime bool `json:"realtime,omitempty"`
}

// Expired indique si le jeton de la session est expiré.
func (s *SessionData) Expired() bool {
	return s.ExpiresAt > 0 && time.Now().Unix() >= s.ExpiresAt
}

// SessionManager chiffre et déchiffre les sessions (AES-256-GCM).
type SessionManager struct {
	key    [32]byte
	secure bool
	logger *slog.Logger
}

// NewSessionManager crée le gestionnaire de sessions. Si secret est
// vide, une clé éphémère est générée : les sessions ne survivent alors
// pas à un redémarrage.
func NewSessionManager(secret string, secure bool, logger *slog.Logger) (*SessionManager, error) {
	m := &SessionManager{
		secure: secure,
		logger: logger.With(slog.String("component", "session")),
	}

	if secret == "" {
		if _, err := rand.Read(m.key[:]); err != nil {
			return nil, fmt.Errorf("génération de la clé de session: %w", err)
		}
		m.logger.Warn("DM_UI_SESSION_SECRET absent, clé de session éphémère générée")
	} else {
		m.key = sha256.Sum256([]byte(secret))
	}
	return m, nil
}

// Encrypt chiffre une session en chaîne base64.
func (m *SessionManager) Encrypt(data *SessionData) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encodage de la session: %w", err)
	}

	block, err := aes.NewCipher(m.key[:])
	if err != nil {
		return "", fmt.Errorf("initialisation AES: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("initialisation GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("génération du nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt déchiffre une chaîne produite par Encrypt.
func (m *SessionManager) Decrypt(encoded string) (*SessionData, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("décodage base64 de la session: %w", err)
	}

	block, err := aes.NewCipher(m.key[:])
	if err != nil {
		return nil, fmt.Errorf("initialisation AES: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initialisation GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("session tronquée")
	}
	nonce, payload := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("déchiffrement de la session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("décodage de la session: %w", err)
	}
	return &data, nil
}

// SetSessionCookie chiffre la session et la pose dans le cookie.
func (m *SessionManager) SetSessionCookie(w http.ResponseWriter, data *SessionData) error {
	encrypted, err := m.Encrypt(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSessionFromRequest lit et déchiffre la session du cookie.
func (m *SessionManager) GetSessionFromRequest(r *http.Request) (*SessionData, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("cookie de session absent: %w", err)
	}
	return m.Decrypt(cookie.Value)
}

// ClearSessionCookie supprime le cookie de session.
func (m *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
