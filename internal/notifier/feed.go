// Package notifier — flux de notifications de la plateforme.
//
// Le backend publie les événements (nouvelle proposition, nouveau
// signalement, ...) sur un canal Redis. Le flux les conserve dans un
// tampon borné et les sert à l'en-tête du dashboard, filtrés par rôle.
// Best effort : toute panne du flux dégrade vers une liste vide, le
// dashboard reste utilisable.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/domain/rbac"
)

var (
	notificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_notifications_received_total",
			Help: "Notifications reçues du canal Redis par type.",
		},
		[]string{"type"},
	)
	notificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_notifications_dropped_total",
			Help: "Messages du canal Redis impossibles à décoder.",
		},
	)
)

// taille par défaut du tampon de notifications
const defaultBufferSize = 50

// Feed — abonnement au canal de notifications et tampon borné.
type Feed struct {
	client  *redis.Client
	channel string
	size    int
	logger  *slog.Logger

	mu  sync.Mutex
	buf []model.Notification

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFeed crée le flux de notifications. client peut pointer vers un
// Redis indisponible : le flux reste alors vide.
func NewFeed(client *redis.Client, channel string, logger *slog.Logger) *Feed {
	return &Feed{
		client:  client,
		channel: channel,
		size:    defaultBufferSize,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Start lance l'abonnement au canal en arrière-plan.
func (f *Feed) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})

	go f.run(ctx)

	f.logger.Info("abonnement au canal de notifications",
		slog.String("canal", f.channel))
}

// Stop ferme l'abonnement et attend la fin de la boucle.
func (f *Feed) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
	f.logger.Info("flux de notifications arrêté")
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)

	// go-redis gère la reconnexion du PubSub, la boucle ne se termine
	// qu'à l'annulation du contexte
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.handleMessage([]byte(msg.Payload))
		}
	}
}

// handleMessage décode un message du canal et l'ajoute au tampon.
func (f *Feed) handleMessage(payload []byte) {
	var n model.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		notificationsDropped.Inc()
		f.logger.Warn("message de notification illisible", slog.Any("err", err))
		return
	}
	if n.ID == "" {
		// Certains producteurs publient sans identifiant
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	notificationsReceived.WithLabelValues(string(n.Type)).Inc()
	f.Add(n)
}

// Add insère une notification en tête du tampon, dans la limite de sa
// taille. Exporté pour les tests et les événements locaux.
func (f *Feed) Add(n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf = append([]model.Notification{n}, f.buf...)
	if len(f.buf) > f.size {
		f.buf = f.buf[:f.size]
	}
}

// ForRole retourne les notifications visibles par le rôle, de la plus
// récente à la plus ancienne. readIDs marque les notifications lues
// par l'utilisateur courant.
func (f *Feed) ForRole(role rbac.Role, readIDs map[string]bool) []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Notification, 0, len(f.buf))
	for _, n := range f.buf {
		if !rbac.CanSeeNotification(role, n.Type) {
			continue
		}
		n.Lu = readIDs[n.ID]
		out = append(out, n)
	}
	return out
}

// UnreadCount retourne le nombre de notifications non lues visibles
// par le rôle.
func (f *Feed) UnreadCount(role rbac.Role, readIDs map[string]bool) int {
	count := 0
	for _, n := range f.ForRole(role, readIDs) {
		if !n.Lu {
			count++
		}
	}
	return count
}
