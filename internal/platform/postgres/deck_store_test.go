package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDeckStore(t *testing.T) (*PostgresDeckStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresDeckStore(db, nil), mock
}

func TestNewPostgresDeckStore_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresDeckStore(nil, nil) })
}

func TestPostgresDeckStore_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectQuery("INSERT INTO decks").
			WithArgs("Spanish").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), created))

		deck := &domain.Deck{Name: "Spanish"}
		require.NoError(t, s.Create(ctx, deck))
		assert.Equal(t, int64(4), deck.ID)
		assert.Equal(t, created, deck.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("name taken", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectQuery("INSERT INTO decks").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "decks_name_key"})

		err := s.Create(ctx, &domain.Deck{Name: "Spanish"})
		assert.ErrorIs(t, err, store.ErrDeckNameTaken)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("invalid name never reaches database", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		err := s.Create(ctx, &domain.Deck{Name: "bad!"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDeckStore_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectQuery("SELECT id, name, created_at").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
				AddRow(int64(2), "German", time.Now()))

		deck, err := s.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "German", deck.Name)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectQuery("SELECT id, name, created_at").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		_, err := s.GetByID(ctx, 9)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectQuery("SELECT id, name, created_at").WillReturnError(errors.New("conn reset"))

		_, err := s.GetByID(ctx, 1)
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "get", storeErr.Operation)
	})
}

func TestPostgresDeckStore_List(t *testing.T) {
	s, mock := newMockDeckStore(t)
	mock.ExpectQuery("ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(2), "French", time.Now()).
			AddRow(int64(1), "Spanish", time.Now()))

	decks, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "French", decks[0].Name)
	assert.Equal(t, "Spanish", decks[1].Name)
}

func TestPostgresDeckStore_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectExec("UPDATE decks SET name").
			WithArgs("Italian", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, s.Rename(ctx, 3, "Italian"))
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectExec("UPDATE decks SET name").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, s.Rename(ctx, 3, "Italian"), store.ErrDeckNotFound)
	})

	t.Run("taken", func(t *testing.T) {
		s, mock := newMockDeckStore(t)
		mock.ExpectExec("UPDATE decks SET name").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})
		assert.ErrorIs(t, s.Rename(ctx, 3, "Italian"), store.ErrDeckNameTaken)
	})
}

func TestPostgresDeckStore_Delete(t *testing.T) {
	ctx := context.Background()

	s, mock := newMockDeckStore(t)
	mock.ExpectExec("DELETE FROM decks").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM decks").WithArgs(int64(6)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(ctx, 5))
	assert.ErrorIs(t, s.Delete(ctx, 6), store.ErrDeckNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
