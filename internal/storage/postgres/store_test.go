package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mallowslabby/shopee/internal/storage"
	"github.com/Mallowslabby/shopee/pkg/database"
	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

func newTestRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewRepository(mock, "wishlist_store"), mock
}

func TestInsert(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO \"wishlist_store\"").
		WithArgs("user-1", "default", []byte(`[]`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Insert(context.Background(), &storage.StoredWishlist{
		Identifier: "user-1",
		Instance:   "default",
		Content:    []byte(`[]`),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDuplicateIdentifier(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("INSERT INTO \"wishlist_store\"").
		WithArgs("user-1", "default", []byte(`[]`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Insert(context.Background(), &storage.StoredWishlist{
		Identifier: "user-1",
		Instance:   "default",
		Content:    []byte(`[]`),
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdentifier(t *testing.T) {
	repo, mock := newTestRepo(t)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"identifier", "instance", "content", "created_at"}).
		AddRow("user-1", "saved", []byte(`[{"id":"1"}]`), now)

	mock.ExpectQuery("SELECT identifier, instance, content, created_at").
		WithArgs("user-1").
		WillReturnRows(rows)

	rec, err := repo.FindByIdentifier(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.Identifier)
	assert.Equal(t, "saved", rec.Instance)
	assert.Equal(t, []byte(`[{"id":"1"}]`), rec.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdentifierNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT identifier, instance, content, created_at").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByIdentifier(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIdentifier(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM \"wishlist_store\"").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteByIdentifier(context.Background(), "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
