// Package postgres implements the stored-wishlist repository on PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mallowslabby/shopee/internal/storage"
	"github.com/Mallowslabby/shopee/pkg/database"
	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded migration files for this repository.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Repository implements storage.Repository over the wishlist_store table.
type Repository struct {
	db    database.DBTX
	table string
}

// NewRepository creates a repository. An empty table name falls back to
// "wishlist_store".
func NewRepository(db database.DBTX, table string) *Repository {
	if table == "" {
		table = "wishlist_store"
	}
	return &Repository{db: db, table: table}
}

// Insert stores a new record. A duplicate identifier fails with an
// already-exists error.
func (r *Repository) Insert(ctx context.Context, rec *storage.StoredWishlist) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (identifier, instance, content)
		VALUES ($1, $2, $3)
	`, pgx.Identifier{r.table}.Sanitize())

	_, err := r.db.Exec(ctx, query, rec.Identifier, rec.Instance, rec.Content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.AlreadyExists("wishlist", "identifier", rec.Identifier)
		}
		return fmt.Errorf("insert stored wishlist: %w", err)
	}
	return nil
}

// FindByIdentifier returns the record for identifier, or a not-found error.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*storage.StoredWishlist, error) {
	query := fmt.Sprintf(`
		SELECT identifier, instance, content, created_at
		FROM %s
		WHERE identifier = $1
	`, pgx.Identifier{r.table}.Sanitize())

	var rec storage.StoredWishlist
	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&rec.Identifier, &rec.Instance, &rec.Content, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("stored wishlist", identifier)
		}
		return nil, fmt.Errorf("find stored wishlist: %w", err)
	}
	return &rec, nil
}

// DeleteByIdentifier removes the record for identifier. Deleting an absent
// identifier is not an error.
func (r *Repository) DeleteByIdentifier(ctx context.Context, identifier string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE identifier = $1`, pgx.Identifier{r.table}.Sanitize())

	if _, err := r.db.Exec(ctx, query, identifier); err != nil {
		return fmt.Errorf("delete stored wishlist: %w", err)
	}
	return nil
}

// Exists reports whether a record with identifier is present.
func (r *Repository) Exists(ctx context.Context, identifier string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE identifier = $1)`, pgx.Identifier{r.table}.Sanitize())

	var exists bool
	if err := r.db.QueryRow(ctx, query, identifier).Scan(&exists); err != nil {
		return false, fmt.Errorf("check stored wishlist: %w", err)
	}
	return exists, nil
}
