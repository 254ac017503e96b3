package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cotonav/dashboard-module/internal/domain/model"
)

// UISettingsRepository — préférences du dashboard (paires clé/valeur).
type UISettingsRepository interface {
	// Get retourne une préférence par clé, ErrNotFound si absente.
	Get(ctx context.Context, key string) (*model.UISetting, error)
	// Upsert crée ou remplace une préférence.
	Upsert(ctx context.Context, key, value, updatedBy string) error
	// List retourne toutes les préférences triées par clé.
	List(ctx context.Context) ([]model.UISetting, error)
}

type uiSettingsRepo struct {
	db DBTX
}

// NewUISettingsRepository crée le dépôt des préférences.
func NewUISettingsRepository(db DBTX) UISettingsRepository {
	return &uiSettingsRepo{db: db}
}

func (r *uiSettingsRepo) Get(ctx context.Context, key string) (*model.UISetting, error) {
	query := `
		SELECT key, value, updated_by, created_at, updated_at
		FROM ui_settings
		WHERE key = $1`

	s := &model.UISetting{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&s.Key, &s.Value, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture de la préférence %s: %w", key, err)
	}
	return s, nil
}

func (r *uiSettingsRepo) Upsert(ctx context.Context, key, value, updatedBy string) error {
	query := `
		INSERT INTO ui_settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, key, value, updatedBy); err != nil {
		return fmt.Errorf("enregistrement de la préférence %s: %w", key, err)
	}
	return nil
}

func (r *uiSettingsRepo) List(ctx context.Context) ([]model.UISetting, error) {
	query := `
		SELECT key, value, updated_by, created_at, updated_at
		FROM ui_settings
		ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("liste des préférences: %w", err)
	}
	defer rows.Close()

	var settings []model.UISetting
	for rows.Next() {
		var s model.UISetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("lecture d'une préférence: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parcours des préférences: %w", err)
	}
	return settings, nil
}
