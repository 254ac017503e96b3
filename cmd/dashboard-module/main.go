// Point d'entrée du Dashboard Module — interface d'administration de
// la plateforme CotoNav. Charge la configuration, applique les
// migrations de l'état local, se connecte à PostgreSQL et Redis, crée
// le client de l'API CotoNav avec son compte de service, lance les
// tâches d'arrière-plan (sondage des vues, flux de notifications,
// topologymetrics) puis le serveur HTTP avec graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/cotonav/dashboard-module/internal/apiclient"
	"github.com/cotonav/dashboard-module/internal/config"
	"github.com/cotonav/dashboard-module/internal/controller"
	"github.com/cotonav/dashboard-module/internal/database"
	"github.com/cotonav/dashboard-module/internal/domain/model"
	"github.com/cotonav/dashboard-module/internal/notifier"
	"github.com/cotonav/dashboard-module/internal/poller"
	"github.com/cotonav/dashboard-module/internal/repository"
	"github.com/cotonav/dashboard-module/internal/server"
	"github.com/cotonav/dashboard-module/internal/service"
	"github.com/cotonav/dashboard-module/internal/ui/auth"
	uihandlers "github.com/cotonav/dashboard-module/internal/ui/handlers"
)

func main() {
	// 1. Chargement de la configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("erreur de chargement de la configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Journalisation
	logger := config.SetupLogger(cfg)
	logger.Info("Dashboard Module démarre",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)
	if os.Getenv("DM_DEPHEALTH_GROUP") == "" {
		logger.Warn("DM_DEPHEALTH_GROUP non définie, valeur par défaut utilisée",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Migrations de l'état local
	logger.Info("application des migrations")
	if err := database.Migrate(cfg.DatabaseURL(), logger); err != nil {
		logger.Error("erreur de migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connexion PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseDSN(), logger)
	if err != nil {
		logger.Error("erreur de connexion PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Adaptateur pgxpool vers *sql.DB pour topologymetrics (mode
	// pool de connexions : la vérification passe par le pool existant
	// et détecte son épuisement)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Client Redis du flux de notifications
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// 6. Clients de l'API CotoNav. Le client de login n'a pas de
	// TokenProvider ; le client principal prend le jeton de la session
	// UI du contexte, sinon celui du compte de service.
	loginClient := apiclient.New(cfg.APIBaseURL, nil, logger)
	serviceAccount := apiclient.NewServiceAccount(loginClient, cfg.ServiceEmail, cfg.ServicePassword, logger)
	api := apiclient.New(cfg.APIBaseURL, apiclient.ChainTokenProvider(serviceAccount), logger)

	// 7. Vérification des JWT du backend contre son JWKS
	verifier, err := auth.NewVerifier(ctx, cfg.JWTJWKSURL, cfg.JWTIssuer, logger)
	if err != nil {
		logger.Error("erreur d'initialisation du vérificateur JWT",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// 8. Sessions UI (AES-256-GCM)
	sessions, err := auth.NewSessionManager(cfg.UISessionSecret, cfg.SecureCookie, logger)
	if err != nil {
		logger.Error("erreur de création du gestionnaire de sessions", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.UISessionSecret == "" {
		logger.Warn("DM_UI_SESSION_SECRET non défini, les sessions ne survivent pas aux redémarrages")
	}

	// 9. Dépôts de l'état local
	settingsRepo := repository.NewUISettingsRepository(pool)
	readsRepo := repository.NewNotificationReadsRepository(pool)
	refreshRepo := repository.NewRefreshStateRepository(pool)

	// 10. Contrôleurs des vues sondées : statistiques du tableau de
	// bord (singleton) et favoris
	statsController := controller.NewListController("statistiques",
		func(ctx context.Context, filters map[string]string, page int) ([]model.Statistiques, *model.Pagination, error) {
			stats, err := api.GetStatistiques(ctx)
			if err != nil {
				return nil, nil, err
			}
			return []model.Statistiques{*stats}, nil, nil
		},
		logger,
	)
	defer statsController.Close()

	favorisController := controller.NewListController("favoris",
		func(ctx context.Context, filters map[string]string, page int) ([]model.Infrastructure, *model.Pagination, error) {
			items, err := api.ListFavorites(ctx)
			return items, nil, err
		},
		logger,
	)
	defer favorisController.Close()

	// 11. Sondage silencieux des vues, horodatages dans refresh_state
	refreshPoller := poller.New(cfg.RefreshInterval, nil,
		[]poller.Task{
			{Name: repository.RefreshViewStats, Run: statsController.LoadSilent},
			{Name: repository.RefreshViewFavoris, Run: favorisController.LoadSilent},
		},
		refreshRepo,
		logger,
	)
	refreshPoller.Start(ctx)
	defer refreshPoller.Stop()

	// 12. Flux de notifications Redis
	feed := notifier.NewFeed(redisClient, cfg.RedisChannel, logger)
	feed.Start(ctx)
	defer feed.Stop()

	// 13. topologymetrics — surveillance PostgreSQL + API CotoNav
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"dashboard-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.APIBaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics indisponible, démarrage sans surveillance des dépendances",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("erreur de démarrage de topologymetrics", slog.String("error", startErr.Error()))
		} else {
			defer dephealthSvc.Stop()
			logger.Info("topologymetrics démarré",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 14. Handlers des pages
	common := &uihandlers.Common{
		Sessions: sessions,
		Feed:     feed,
		Reads:    readsRepo,
		Settings: settingsRepo,
		Logger:   logger,
	}
	handlers := server.Handlers{
		Auth:            uihandlers.NewAuthHandler(api, sessions, verifier, logger),
		Dashboard:       uihandlers.NewDashboardHandler(common, statsController, refreshRepo, logger),
		Infrastructures: uihandlers.NewInfrastructuresHandler(common, api, logger),
		Favoris:         uihandlers.NewFavorisHandler(common, api, favorisController, logger),
		Propositions:    uihandlers.NewPropositionsHandler(common, api, logger),
		Signalements:    uihandlers.NewSignalementsHandler(common, api, logger),
		Avis:            uihandlers.NewAvisHandler(common, api, logger),
		Utilisateurs:    uihandlers.NewUtilisateursHandler(common, api, logger),
		Profils:         uihandlers.NewProfilsHandler(common, api, logger),
		Statistiques:    uihandlers.NewStatistiquesHandler(common, api, logger),
		Profil:          uihandlers.NewProfilHandler(common, api, logger),
		Notifications:   uihandlers.NewNotificationsHandler(common, api, cfg.SSEInterval, logger),
		Health: uihandlers.NewHealthHandler(
			database.NewReadinessChecker(pool),
			redisClient,
			cfg.APIBaseURL,
		),
	}

	// 15. Serveur HTTP avec graceful shutdown
	srv := server.New(cfg, logger, sessions, handlers)
	if err := srv.Run(); err != nil {
		logger.Error("erreur du serveur", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Dashboard Module arrêté")
}
