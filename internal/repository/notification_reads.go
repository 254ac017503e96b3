package repository

import (
	"context"
	"fmt"
	"time"
)

// NotificationReadsRepository — marques de lecture des notifications
// par membre du personnel.
type NotificationReadsRepository interface {
	// MarkRead enregistre qu'un utilisateur a lu une notification.
	// Idempotent.
	MarkRead(ctx context.Context, notificationID, userID string) error
	// ReadIDs retourne les identifiants des notifications lues par
	// l'utilisateur.
	ReadIDs(ctx context.Context, userID string) (map[string]bool, error)
	// PurgeOlderThan supprime les marques plus anciennes que la durée
	// donnée (le tampon de notifications est lui-même borné).
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type notificationReadsRepo struct {
	db DBTX
}

// NewNotificationReadsRepository crée le dépôt des marques de lecture.
func NewNotificationReadsRepository(db DBTX) NotificationReadsRepository {
	return &notificationReadsRepo{db: db}
}

func (r *notificationReadsRepo) MarkRead(ctx context.Context, notificationID, userID string) error {
	query := `
		INSERT INTO notification_reads (notification_id, user_id)
		VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, notificationID, userID); err != nil {
		// Marque déjà posée : idempotent
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("marquage de la notification %s: %w", notificationID, err)
	}
	return nil
}

func (r *notificationReadsRepo) ReadIDs(ctx context.Context, userID string) (map[string]bool, error) {
	query := `
		SELECT notification_id
		FROM notification_reads
		WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("lecture des marques de %s: %w", userID, err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("lecture d'une marque: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parcours des marques: %w", err)
	}
	return ids, nil
}

func (r *notificationReadsRepo) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	query := `DELETE FROM notification_reads WHERE read_at < $1`

	tag, err := r.db.Exec(ctx, query, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("purge des marques de lecture: %w", err)
	}
	return tag.RowsAffected(), nil
}
