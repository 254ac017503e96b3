// Package handlers — handlers HTTP des pages du dashboard.
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

// flashFrom lit les messages flash transportés en paramètres de
// requête entre une action et le rendu suivant.
func flashFrom(r *http.Request) pages.Flash {
	q := r.URL.Query()
	return pages.Flash{
		Erreur: q.Get("erreur"),
		Info:   q.Get("info"),
	}
}

// flashURL ajoute le message flash aux paramètres de la page cible,
// qui peut déjà porter une query (conservation de la pagination).
func flashURL(path, key, msg string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(msg)
}

// redirectWithError renvoie vers la page avec le message d'erreur en
// paramètre flash.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, flashURL(path, "erreur", msg), http.StatusSeeOther)
}

// redirectWithInfo renvoie vers la page avec un message d'information.
func redirectWithInfo(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, flashURL(path, "info", msg), http.StatusSeeOther)
}

// handleActionError traite l'échec d'une action de page :
//   - 401 : session invalide côté backend, déconnexion forcée
//   - 404 : la ressource a disparu (déjà traitée ailleurs), retour à
//     la liste qui se recharge
//   - sinon : retour à la liste avec le message d'erreur
func handleActionError(w http.ResponseWriter, r *http.Request, sessions *auth.SessionManager, logger *slog.Logger, backTo string, err error) {
	switch {
	case apiclient.IsUnauthorized(err):
		logger.Info("401 de l'API, déconnexion forcée")
		sessions.ClearSessionCookie(w)
		http.Redirect(w, r, "/login?raison=session_expiree", http.StatusSeeOther)
	case apiclient.IsNotFound(err):
		redirectWithError(w, r, backTo, "Cet élément n'existe plus, la liste a été actualisée")
	case apiclient.IsForbidden(err):
		redirectWithError(w, r, backTo, "Action refusée : droits insuffisants")
	default:
		logger.Error("échec de l'action", slog.Any("err", err))
		redirectWithError(w, r, backTo, "L'action a échoué, veuillez réessayer")
	}
}

// handlePageError traite l'échec du chargement d'une page entière.
func handlePageError(w http.ResponseWriter, r *http.Request, sessions *auth.SessionManager, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}
	if apiclient.IsUnauthorized(err) {
		logger.Info("401 de l'API, déconnexion forcée")
		sessions.ClearSessionCookie(w)
		http.Redirect(w, r, "/login?raison=session_expiree", http.StatusSeeOther)
		return true
	}
	// La page se rend quand même avec la copie précédente et l'erreur
	return false
}

// renderError — échec du rendu templ.
func renderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("échec du rendu de la page", slog.Any("err", err))
	http.Error(w, "Erreur de rendu de la page", http.StatusInternalServerError)
}

// pageParam lit un numéro de page de la requête (minimum 1).
func pageParam(r *http.Request) int {
	q := r.URL.Query().Get("page")
	if q == "" {
		return 1
	}
	page := 0
	for _, c := range q {
		if c < '0' || c > '9' {
			return 1
		}
		page = page*10 + int(c-'0')
	}
	if page < 1 {
		return 1
	}
	return page
}

// boolParam lit un paramètre booléen optionnel ("true"/"false").
func boolParam(r *http.Request, key string) *bool {
	switch r.URL.Query().Get(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
