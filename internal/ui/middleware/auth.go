// Package middleware — middlewares des pages du dashboard.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// SessionFromContext retourne la session posée par RequireSession.
func SessionFromContext(ctx context.Context) (*auth.SessionData, bool) {
	s, ok := ctx.Value(sessionCtxKey).(*auth.SessionData)
	return s, ok
}

// WithSession place une session dans le contexte, avec son jeton
// Bearer pour le client API.
func WithSession(ctx context.Context, session *auth.SessionData) context.Context {
	ctx = context.WithValue(ctx, sessionCtxKey, session)
	return apiclient.WithToken(ctx, session.Token)
}

// RequireSession déchiffre le cookie de session, refuse les jetons
// expirés et place la session dans le contexte ainsi que le jeton
// Bearer pour le client API. Sans session valide : redirection vers la
// page de connexion.
func RequireSession(sessions *auth.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "session-middleware"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.GetSessionFromRequest(r)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if session.Expired() {
				log.Info("session expirée, déconnexion forcée",
					slog.String("user_id", session.UserID))
				sessions.ClearSessionCookie(w)
				http.Redirect(w, r, "/login?raison=session_expiree", http.StatusSeeOther)
				return
			}

			if !rbac.IsStaff(rbac.Role(session.Role)) {
				log.Warn("session d'un compte non personnel refusée",
					slog.String("user_id", session.UserID),
					slog.String("role", session.Role))
				sessions.ClearSessionCookie(w)
				http.Redirect(w, r, "/login?raison=acces_refuse", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequirePath vérifie que le rôle de la session a accès à la page (les
// entrées du menu font foi). Refus : redirection vers la première page
// du menu du rôle.
func RequirePath(path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			role := rbac.Role(session.Role)
			if !rbac.CanAccessPath(role, path) {
				menu := rbac.MenuFor(role)
				if len(menu) == 0 {
					http.Redirect(w, r, "/login", http.StatusSeeOther)
					return
				}
				http.Redirect(w, r, menu[0].Path, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
