// Package service — services d'arrière-plan du dashboard.
//
// dephealth.go — intégration du SDK topologymetrics pour la
// surveillance des dépendances :
//   - PostgreSQL — vérification en mode pool de connexions (critique)
//   - API CotoNav — vérification HTTP du backend (critique)
//
// Le mode pool est préféré pour PostgreSQL : il reflète la capacité
// réelle du service à obtenir une connexion et détecte l'épuisement
// du pool. Redis est vérifié par /health/ready (PING), le flux de
// notifications étant best effort.
//
// Métriques exposées sur /metrics avec le reste :
//   - app_dependency_health — état de la dépendance (1 = ok, 0 = ko)
//   - app_dependency_latency_seconds — latence de la vérification
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // checker HTTP du backend
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — surveillance des dépendances via topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService crée le service de surveillance. Les métriques
// sont enregistrées dans le registre Prometheus global.
//
// Paramètres :
//   - serviceID — nom du sommet du graphe (dashboard-module)
//   - group — groupe dans les métriques
//   - db — *sql.DB obtenu du pgxpool via stdlib.OpenDBFromPool()
//   - pgConnURL — URL PostgreSQL (étiquettes des métriques uniquement)
//   - apiBaseURL — URL de base de l'API CotoNav
//   - checkInterval — intervalle des vérifications
func NewDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	apiBaseURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, apiBaseURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer crée le service avec un registre
// Prometheus fourni (isolation des métriques dans les tests).
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	apiBaseURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, apiBaseURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	apiBaseURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	// L'API CotoNav expose sa santé sur /health ; si l'URL de base
	// porte un préfixe (/api), la vérification passe par ce préfixe
	apiHealthPath := "/health"
	if parsed, parseErr := url.Parse(apiBaseURL); parseErr == nil && parsed.Path != "" {
		apiHealthPath = parsed.Path + "/health"
	}

	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// PostgreSQL — mode pool de connexions via le pgxpool existant.
		// pgcheck.New + AddDependency directement, pour ne pas tirer
		// contrib/sqldb et sa dépendance transitive MySQL.
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(pgConnURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
		// API CotoNav — checker HTTP
		dephealth.HTTP("cotonav-api",
			dephealth.FromURL(apiBaseURL),
			dephealth.WithHTTPHealthPath(apiHealthPath),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start lance la vérification périodique des dépendances.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("surveillance des dépendances démarrée (PostgreSQL + API CotoNav)")
	return ds.dh.Start(ctx)
}

// Stop arrête la surveillance.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("surveillance des dépendances arrêtée")
}

// Health retourne l'état courant des dépendances (nom → ok).
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
