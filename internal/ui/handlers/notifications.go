package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
	"github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/pages"
)

// NotificationsHandler — panneau de notifications de l'en-tête : flux
// SSE du compteur, liste, marques de lecture et relais du jeton FCM.
type NotificationsHandler struct {
	common   *Common
	api      *apiclient.Client
	interval time.Duration
	logger   *slog.Logger
}

// NewNotificationsHandler crée le handler des notifications. interval
// fixe la période d'émission du flux SSE.
func NewNotificationsHandler(common *Common, api *apiclient.Client, interval time.Duration, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		common:   common,
		api:      api,
		interval: interval,
		logger:   logger.With(slog.String("component", "ui.notifications")),
	}
}

// HandlePanel traite GET /dashboard/notifications : fragment HTML du
// panneau, rechargé par le script de l'en-tête.
func (h *NotificationsHandler) HandlePanel(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "session requise", http.StatusUnauthorized)
		return
	}

	readIDs, err := h.common.Reads.ReadIDs(r.Context(), session.UserID)
	if err != nil {
		h.logger.Warn("lecture des marques impossible", slog.Any("err", err))
		readIDs = nil
	}

	data := pages.NotificationsData{
		Items: h.common.Feed.ForRole(rbac.Role(session.Role), readIDs),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.NotificationsPanel(data).Render(r.Context(), w); err != nil {
		renderError(w, h.logger, err)
	}
}

// sseEvent — charge utile du flux SSE, consommée par le script de
// l'en-tête pour mettre à jour le badge sans recharger la page.
type sseEvent struct {
	NonLues int `json:"non_lues"`
}

// HandleEvents traite GET /dashboard/notifications/events : flux SSE
// émettant le compteur de notifications non lues à intervalle fixe. La
// connexion se termine avec la requête du client.
func (h *NotificationsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "session requise", http.StatusUnauthorized)
		return
	}
	role := rbac.Role(session.Role)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.logger.Warn("flux SSE non supporté par la connexion", slog.Any("err", err))
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	send := func() bool {
		readIDs, err := h.common.Reads.ReadIDs(r.Context(), session.UserID)
		if err != nil {
			readIDs = nil
		}
		payload, err := json.Marshal(sseEvent{
			NonLues: h.common.Feed.UnreadCount(role, readIDs),
		})
		if err != nil {
			return false
		}
		if _, err := w.Write([]byte("event: notifications\ndata: " + string(payload) + "\n\n")); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}

// HandleMarkRead traite POST /dashboard/notifications/{id}/lu.
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "session requise", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.common.Reads.MarkRead(r.Context(), id, session.UserID); err != nil {
		h.logger.Error("marquage de la notification impossible",
			slog.String("id", id), slog.Any("err", err))
		http.Error(w, "marquage impossible", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFCMToken traite POST /dashboard/notifications/fcm-token : le
// script de l'en-tête y relaie le jeton d'appareil du navigateur. Best
// effort, la réponse est toujours 204.
func (h *NotificationsHandler) HandleFCMToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		http.Error(w, "jeton manquant", http.StatusBadRequest)
		return
	}

	if err := h.api.RegisterFCMToken(r.Context(), body.Token); err != nil {
		h.logger.Warn("relais du jeton FCM en échec", slog.Any("err", err))
	}
	w.WriteHeader(http.StatusNoContent)
}
