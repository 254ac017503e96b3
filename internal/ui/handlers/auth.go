package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

// AuthHandler — connexion et déconnexion du dashboard.
type AuthHandler struct {
	api      *apiclient.Client
	sessions *auth.SessionManager
	verifier *auth.Verifier
	logger   *slog.Logger
}

// NewAuthHandler crée le handler d'authentification.
func NewAuthHandler(api *apiclient.Client, sessions *auth.SessionManager, verifier *auth.Verifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		api:      api,
		sessions: sessions,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage traite GET /login — formulaire de connexion.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := pages.LoginData{
		Erreur: r.URL.Query().Get("erreur"),
		Raison: r.URL.Query().Get("raison"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// HandleLoginSubmit traite POST /login — authentification contre
// l'API CotoNav. Le rôle est pris dans le JWT vérifié contre le JWKS
// du backend, jamais dans le corps de la réponse.
func (h *AuthHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", "Formulaire invalide")
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		redirectWithError(w, r, "/login", "Email et mot de passe obligatoires")
		return
	}

	result, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		if apiclient.IsUnauthorized(err) || apiclient.IsForbidden(err) {
			h.logger.Info("échec de connexion", slog.String("email", email))
			redirectWithError(w, r, "/login", "Email ou mot de passe incorrect")
			return
		}
		h.logger.Error("connexion impossible", slog.Any("err", err))
		redirectWithError(w, r, "/login", "Connexion impossible, veuillez réessayer")
		return
	}

	claims, err := h.verifier.Verify(result.Token)
	if err != nil {
		h.logger.Warn("jeton du backend rejeté", slog.Any("err", err))
		redirectWithError(w, r, "/login", "Jeton d'authentification invalide")
		return
	}

	role := rbac.Role(claims.Role)
	if !rbac.IsStaff(role) {
		h.logger.Info("connexion refusée pour un compte non personnel",
			slog.String("email", email), slog.String("role", claims.Role))
		redirectWithError(w, r, "/login", "Ce compte n'a pas accès au dashboard")
		return
	}

	session := &auth.SessionData{
		Token:          result.Token,
		ExpiresAt:      claims.ExpiresAt.Unix(),
		UserID:         firstOf(claims.Subject, result.User.ID),
		Nom:            firstOf(claims.Nom, result.User.Nom),
		Prenom:         firstOf(claims.Prenom, result.User.Prenom),
		Email:          firstOf(claims.Email, result.User.Email),
		Role:           claims.Role,
		Commune:        firstOf(claims.Commune, result.User.Commune),
		Arrondissement: firstOf(claims.Arrondissement, result.User.Arrondissement),
	}

	// Jeton temps réel : best effort, le flux de notifications se
	// dégrade sans lui
	tokenCtx := apiclient.WithToken(r.Context(), result.Token)
	if _, rtErr := h.api.RealtimeToken(tokenCtx); rtErr == nil {
		session.Realtime = true
	} else {
		h.logger.Debug("jeton temps réel indisponible", slog.Any("err", rtErr))
	}

	if err := h.sessions.SetSessionCookie(w, session); err != nil {
		h.logger.Error("pose du cookie de session impossible", slog.Any("err", err))
		redirectWithError(w, r, "/login", "Connexion impossible, veuillez réessayer")
		return
	}

	h.logger.Info("connexion réussie",
		slog.String("user_id", session.UserID),
		slog.String("role", session.Role))

	menu := rbac.MenuFor(role)
	http.Redirect(w, r, menu[0].Path, http.StatusSeeOther)
}

// HandleLogout traite POST /logout — suppression de la session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// firstOf retourne la première chaîne non vide.
func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
