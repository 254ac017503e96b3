package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotonav/dashboard-module/internal/config"
	"github.com/cotonav/dashboard-module/internal/database"
)

// setupTestDB lance un conteneur PostgreSQL, applique les migrations et
// retourne le pool. Le conteneur est détruit à la fin du test.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Test d'intégration ignoré : TEST_INTEGRATION non définie")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("dashboard_test"),
		postgres.WithUsername("dashboard"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Impossible de lancer le conteneur PostgreSQL : %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Erreur d'arrêt du conteneur : %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Impossible d'obtenir l'hôte du conteneur : %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Impossible d'obtenir le port du conteneur : %v", err)
	}

	// Variables d'environnement pour config.Load()
	t.Setenv("DM_DB_HOST", host)
	t.Setenv("DM_DB_PORT", port.Port())
	t.Setenv("DM_DB_NAME", "dashboard_test")
	t.Setenv("DM_DB_USER", "dashboard")
	t.Setenv("DM_DB_PASSWORD", "test-password")
	t.Setenv("DM_DB_SSL_MODE", "disable")
	t.Setenv("DM_API_BASE_URL", "http://localhost:3001/api")
	t.Setenv("DM_SERVICE_EMAIL", "svc@cotonav.bj")
	t.Setenv("DM_SERVICE_PASSWORD", "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Erreur de chargement de la configuration : %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := database.Migrate(cfg.DatabaseURL(), logger); err != nil {
		t.Fatalf("Erreur d'application des migrations : %v", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseDSN(), logger)
	if err != nil {
		t.Fatalf("Erreur de connexion PostgreSQL : %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func TestUISettingsRepository(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUISettingsRepository(pool)
	ctx := context.Background()

	t.Run("Get sur clé absente", func(t *testing.T) {
		_, err := repo.Get(ctx, "absent")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, attendu ErrNotFound", err)
		}
	})

	t.Run("Upsert puis Get", func(t *testing.T) {
		if err := repo.Upsert(ctx, "theme", "sombre", "u-1"); err != nil {
			t.Fatalf("Upsert : %v", err)
		}
		s, err := repo.Get(ctx, "theme")
		if err != nil {
			t.Fatalf("Get : %v", err)
		}
		if s.Value != "sombre" || s.UpdatedBy != "u-1" {
			t.Errorf("préférence = %+v", s)
		}
	})

	t.Run("Upsert remplace la valeur", func(t *testing.T) {
		if err := repo.Upsert(ctx, "theme", "clair", "u-2"); err != nil {
			t.Fatalf("Upsert : %v", err)
		}
		s, err := repo.Get(ctx, "theme")
		if err != nil {
			t.Fatalf("Get : %v", err)
		}
		if s.Value != "clair" || s.UpdatedBy != "u-2" {
			t.Errorf("préférence = %+v", s)
		}
	})

	t.Run("List triée par clé", func(t *testing.T) {
		repo.Upsert(ctx, "langue", "fr", "u-1")
		settings, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List : %v", err)
		}
		if len(settings) < 2 {
			t.Fatalf("%d préférences, attendu au moins 2", len(settings))
		}
		if settings[0].Key > settings[1].Key {
			t.Error("les préférences doivent être triées par clé")
		}
	})
}

func TestNotificationReadsRepository(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewNotificationReadsRepository(pool)
	ctx := context.Background()

	userID := uuid.NewString()
	n1 := uuid.NewString()
	n2 := uuid.NewString()

	t.Run("MarkRead idempotent", func(t *testing.T) {
		if err := repo.MarkRead(ctx, n1, userID); err != nil {
			t.Fatalf("MarkRead : %v", err)
		}
		if err := repo.MarkRead(ctx, n1, userID); err != nil {
			t.Fatalf("MarkRead répété : %v", err)
		}
	})

	t.Run("ReadIDs par utilisateur", func(t *testing.T) {
		if err := repo.MarkRead(ctx, n2, userID); err != nil {
			t.Fatalf("MarkRead : %v", err)
		}
		// Lecture d'un autre utilisateur, invisible pour userID
		repo.MarkRead(ctx, uuid.NewString(), uuid.NewString())

		ids, err := repo.ReadIDs(ctx, userID)
		if err != nil {
			t.Fatalf("ReadIDs : %v", err)
		}
		if len(ids) != 2 || !ids[n1] || !ids[n2] {
			t.Errorf("ids = %v, attendu {%s, %s}", ids, n1, n2)
		}
	})

	t.Run("PurgeOlderThan conserve les marques récentes", func(t *testing.T) {
		deleted, err := repo.PurgeOlderThan(ctx, time.Hour)
		if err != nil {
			t.Fatalf("PurgeOlderThan : %v", err)
		}
		if deleted != 0 {
			t.Errorf("%d marques supprimées, les marques récentes doivent survivre", deleted)
		}
		ids, _ := repo.ReadIDs(ctx, userID)
		if len(ids) != 2 {
			t.Error("les marques récentes ont disparu")
		}
	})
}

func TestRefreshStateRepository(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewRefreshStateRepository(pool)
	ctx := context.Background()

	t.Run("ligne initiale présente", func(t *testing.T) {
		s, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("Get : %v", err)
		}
		if s.ID != 1 {
			t.Errorf("ID = %d, attendu 1", s.ID)
		}
		if s.LastStatsRefreshAt != nil {
			t.Error("aucun rafraîchissement consigné au départ")
		}
	})

	t.Run("RecordRefresh par vue", func(t *testing.T) {
		at := time.Now().Truncate(time.Millisecond)
		if err := repo.RecordRefresh(ctx, RefreshViewStats, at); err != nil {
			t.Fatalf("RecordRefresh : %v", err)
		}
		s, err := repo.Get(ctx)
		if err != nil {
			t.Fatalf("Get : %v", err)
		}
		if s.LastStatsRefreshAt == nil || !s.LastStatsRefreshAt.Equal(at) {
			t.Errorf("LastStatsRefreshAt = %v, attendu %v", s.LastStatsRefreshAt, at)
		}
		if s.LastFavorisRefreshAt != nil {
			t.Error("la vue favoris ne doit pas être touchée")
		}
	})

	t.Run("vue inconnue refusée", func(t *testing.T) {
		if err := repo.RecordRefresh(ctx, "autre", time.Now()); err == nil {
			t.Error("une vue inconnue doit être refusée")
		}
	})
}
