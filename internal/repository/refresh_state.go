package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// Noms des vues sondées, colonnes de refresh_state.
const (
	RefreshViewStats   = "statistiques"
	RefreshViewFavoris = "favoris"
)

// RefreshStateRepository — horodatages des derniers rafraîchissements
// silencieux (une seule ligne, id = 1).
type RefreshStateRepository interface {
	// Get retourne l'état courant des rafraîchissements.
	Get(ctx context.Context) (*model.RefreshState, error)
	// RecordRefresh consigne l'horodatage du dernier rafraîchissement
	// réussi de la vue. Satisfait poller.Recorder.
	RecordRefresh(ctx context.Context, view string, at time.Time) error
}

type refreshStateRepo struct {
	db DBTX
}

// NewRefreshStateRepository crée le dépôt d'état des rafraîchissements.
func NewRefreshStateRepository(db DBTX) RefreshStateRepository {
	return &refreshStateRepo{db: db}
}

func (r *refreshStateRepo) Get(ctx context.Context) (*model.RefreshState, error) {
	query := `
		SELECT id, last_stats_refresh_at, last_favoris_refresh_at, created_at, updated_at
		FROM refresh_state
		WHERE id = 1`

	s := &model.RefreshState{}
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID, &s.LastStatsRefreshAt, &s.LastFavorisRefreshAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("lecture de refresh_state: %w", err)
	}
	return s, nil
}

func (r *refreshStateRepo) RecordRefresh(ctx context.Context, view string, at time.Time) error {
	var column string
	switch view {
	case RefreshViewStats:
		column = "last_stats_refresh_at"
	case RefreshViewFavoris:
		column = "last_favoris_refresh_at"
	default:
		return fmt.Errorf("vue sondée inconnue : %q", view)
	}

	query := fmt.Sprintf(
		`UPDATE refresh_state SET %s = $1, updated_at = NOW() WHERE id = 1`, column)
	if _, err := r.db.Exec(ctx, query, at); err != nil {
		return fmt.Errorf("mise à jour de %s: %w", column, err)
	}
	return nil
}
