// Package repository — accès à l'état local du dashboard (PostgreSQL).
//
// Le dashboard ne stocke jamais de données de la plateforme : la base
// locale ne contient que ses préférences, les marques de lecture des
// notifications et les horodatages de rafraîchissement.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound — enregistrement introuvable.
var ErrNotFound = errors.New("enregistrement introuvable")

// DBTX — opérations communes à *pgxpool.Pool et pgx.Tx. Permet aux
// dépôts de fonctionner indifféremment dans ou hors transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation détecte une violation de contrainte d'unicité
// PostgreSQL (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
