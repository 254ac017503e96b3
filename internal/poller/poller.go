// Package poller — rafraîchissement périodique des vues sondées.
//
// Le tableau de bord et les favoris sont resondés toutes les 3
// secondes (intervalle configurable) par un chargement silencieux.
// Les erreurs de tick sont journalisées, jamais affichées.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_refresh_duration_seconds",
			Help:    "Durée des rafraîchissements silencieux par vue.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"vue"},
	)
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_total",
			Help: "Nombre de rafraîchissements silencieux par vue et résultat.",
		},
		[]string{"vue", "resultat"},
	)
)

// Ticker — abstraction de time.Ticker, injectable dans les tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory fabrique un Ticker pour l'intervalle donné.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker — TickerFactory de production (time.Ticker).
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Task — une vue à rafraîchir à chaque tick.
type Task struct {
	// Name : nom de la vue (étiquette des métriques et de refresh_state)
	Name string
	// Run : chargement silencieux de la vue
	Run func(ctx context.Context) error
}

// Recorder consigne l'horodatage du dernier rafraîchissement réussi
// d'une vue. Optionnel.
type Recorder interface {
	RecordRefresh(ctx context.Context, view string, at time.Time) error
}

// Poller exécute les tâches de rafraîchissement à intervalle fixe.
type Poller struct {
	interval  time.Duration
	newTicker TickerFactory
	tasks     []Task
	recorder  Recorder
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New crée un Poller. recorder peut être nil.
func New(interval time.Duration, newTicker TickerFactory, tasks []Task, recorder Recorder, logger *slog.Logger) *Poller {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Poller{
		interval:  interval,
		newTicker: newTicker,
		tasks:     tasks,
		recorder:  recorder,
		logger:    logger.With(slog.String("component", "poller")),
	}
}

// Start lance la boucle de rafraîchissement en arrière-plan.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)

	p.logger.Info("sondage démarré",
		slog.Duration("intervalle", p.interval),
		slog.Int("vues", len(p.tasks)))
}

// Stop arrête la boucle et attend sa fin : aucun tick ne s'exécute
// après le retour de Stop.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.logger.Info("sondage arrêté")
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := p.newTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	for _, task := range p.tasks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		err := task.Run(ctx)
		refreshDuration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())

		if err != nil {
			refreshTotal.WithLabelValues(task.Name, "erreur").Inc()
			p.logger.Warn("échec du rafraîchissement",
				slog.String("vue", task.Name), slog.Any("err", err))
			continue
		}
		refreshTotal.WithLabelValues(task.Name, "ok").Inc()

		if p.recorder != nil {
			if err := p.recorder.RecordRefresh(ctx, task.Name, time.Now()); err != nil {
				p.logger.Warn("échec de l'enregistrement de l'horodatage",
					slog.String("vue", task.Name), slog.Any("err", err))
			}
		}
	}
}
