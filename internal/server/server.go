// Package server — serveur HTTP du dashboard avec graceful shutdown.
// Pas de TLS : le service tourne derrière le reverse proxy de la
// plateforme qui termine la connexion chiffrée.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cotonav/dashboard-module/internal/config"
	"github.com/cotonav/dashboard-module/internal/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	"github.com/cotonav/dashboard-module/internal/ui/handlers"
	uimiddleware "github.com/cotonav/dashboard-module/internal/ui/middleware"
	"github.com/cotonav/dashboard-module/internal/ui/static"
)

// Handlers — handlers de pages et d'actions câblés dans le routeur.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Dashboard       *handlers.DashboardHandler
	Infrastructures *handlers.InfrastructuresHandler
	Favoris         *handlers.FavorisHandler
	Propositions    *handlers.PropositionsHandler
	Signalements    *handlers.SignalementsHandler
	Avis            *handlers.AvisHandler
	Utilisateurs    *handlers.UtilisateursHandler
	Profils         *handlers.ProfilsHandler
	Statistiques    *handlers.StatistiquesHandler
	Profil          *handlers.ProfilHandler
	Notifications   *handlers.NotificationsHandler
	Health          *handlers.HealthHandler
}

// Server — serveur HTTP du dashboard.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New crée le serveur avec le routeur complet : pages publiques,
// pages protégées par session et endpoints de supervision.
func New(cfg *config.Config, logger *slog.Logger, sessions *auth.SessionManager, h Handlers) *Server {
	router := chi.NewRouter()

	// Middlewares globaux
	router.Use(middleware.Metrics)
	router.Use(middleware.RequestLogger(logger))

	// Supervision : sondés par l'orchestrateur, hors session
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Handle("/metrics", promhttp.Handler())

	// Ressources statiques embarquées
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Pages publiques
	router.Get("/login", h.Auth.HandleLoginPage)
	router.Post("/login", h.Auth.HandleLoginSubmit)
	router.Post("/logout", h.Auth.HandleLogout)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	// Pages protégées : session obligatoire, accès par page selon le
	// menu du rôle
	router.Route("/dashboard", func(r chi.Router) {
		r.Use(uimiddleware.RequireSession(sessions, logger))

		page := func(path string, fn func(chi.Router)) {
			r.Route(path, func(sub chi.Router) {
				sub.Use(uimiddleware.RequirePath("/dashboard" + path))
				fn(sub)
			})
		}

		r.With(uimiddleware.RequirePath("/dashboard")).Get("/", h.Dashboard.HandleDashboard)
		r.With(uimiddleware.RequirePath("/dashboard")).Post("/annonce", h.Dashboard.HandleSetAnnonce)

		page("/infrastructures", func(sub chi.Router) {
			sub.Get("/", h.Infrastructures.HandleList)
			sub.Get("/{id}", h.Infrastructures.HandleDetail)
			sub.Post("/{id}", h.Infrastructures.HandleUpdate)
			sub.Post("/{id}/valider", h.Infrastructures.HandleValidate)
			sub.Post("/{id}/supprimer", h.Infrastructures.HandleDelete)
		})
		page("/favoris", func(sub chi.Router) {
			sub.Get("/", h.Favoris.HandleList)
			sub.Post("/{id}/retirer", h.Favoris.HandleRemove)
		})
		page("/propositions", func(sub chi.Router) {
			sub.Get("/", h.Propositions.HandleList)
			sub.Post("/{id}/approuver", h.Propositions.HandleApprove)
			sub.Post("/{id}/rejeter", h.Propositions.HandleReject)
		})
		page("/signalements", func(sub chi.Router) {
			sub.Get("/", h.Signalements.HandleList)
			sub.Post("/{id}/statut", h.Signalements.HandleUpdateStatut)
		})
		page("/avis", func(sub chi.Router) {
			sub.Get("/", h.Avis.HandleList)
			sub.Post("/{id}/moderer", h.Avis.HandleModerate)
			sub.Post("/{id}/supprimer", h.Avis.HandleDelete)
		})
		page("/utilisateurs", func(sub chi.Router) {
			sub.Get("/", h.Utilisateurs.HandleList)
			sub.Post("/{id}/actif", h.Utilisateurs.HandleToggleActif)
			sub.Post("/{id}/role", h.Utilisateurs.HandleChangeRole)
		})
		page("/profils", func(sub chi.Router) {
			sub.Get("/", h.Profils.HandleList)
			sub.Post("/", h.Profils.HandleCreate)
			sub.Post("/{id}/supprimer", h.Profils.HandleDelete)
		})
		page("/statistiques", func(sub chi.Router) {
			sub.Get("/", h.Statistiques.HandleList)
		})
		page("/profil", func(sub chi.Router) {
			sub.Get("/", h.Profil.HandleShow)
		})

		// Notifications : accessibles à tout le personnel connecté,
		// indépendamment du menu
		r.Route("/notifications", func(sub chi.Router) {
			sub.Get("/", h.Notifications.HandlePanel)
			sub.Get("/events", h.Notifications.HandleEvents)
			sub.Post("/{id}/lu", h.Notifications.HandleMarkRead)
			sub.Post("/fcm-token", h.Notifications.HandleFCMToken)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		// WriteTimeout large : le flux SSE garde la connexion ouverte
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run démarre le serveur et attend SIGINT ou SIGTERM, puis effectue un
// graceful shutdown borné par ShutdownTimeout.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("serveur HTTP démarré", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("signal d'arrêt reçu", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("erreur du serveur HTTP: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("arrêt du serveur HTTP en cours")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("serveur HTTP arrêté")
	return nil
}
