// Package database — connexion PostgreSQL et migrations de l'état
// local du dashboard.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect ouvre le pool de connexions et vérifie la liaison.
func Connect(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("création du pool PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	logger.Info("connexion PostgreSQL établie")
	return pool, nil
}

// Migrate applique les migrations embarquées.
func Migrate(databaseURL string, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ouverture des migrations embarquées: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("initialisation des migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schéma à jour, aucune migration à appliquer")
		return nil
	}
	if err != nil {
		return fmt.Errorf("application des migrations: %w", err)
	}

	logger.Info("migrations appliquées")
	return nil
}

// ReadinessChecker vérifie la disponibilité de la base pour le
// endpoint /health/ready.
type ReadinessChecker struct {
	pool *pgxpool.Pool
}

// NewReadinessChecker crée le vérificateur de disponibilité.
func NewReadinessChecker(pool *pgxpool.Pool) *ReadinessChecker {
	return &ReadinessChecker{pool: pool}
}

// CheckReady retourne l'état de la base (ok ou erreur) et un message.
func (c *ReadinessChecker) CheckReady(ctx context.Context) (bool, string) {
	if err := c.pool.Ping(ctx); err != nil {
		return false, fmt.Sprintf("PostgreSQL indisponible : %v", err)
	}
	return true, "ok"
}
