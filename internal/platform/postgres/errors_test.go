package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: uniqueViolationCode}, wantIs: store.ErrDuplicate},
		{
			name:   "foreign key",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "flashcards_deck_id_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "decks_name_length"},
			wantIs: store.ErrInvalidEntity,
		},
		{name: "not null", err: &pgconn.PgError{Code: notNullViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "invalid text", err: &pgconn.PgError{Code: invalidTextCode}, wantIs: store.ErrInvalidEntity},
		{
			name:   "wrapped pg error",
			err:    fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			wantIs: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
		})
	}

	t.Run("unmapped error passes through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Same(t, orig, MapError(orig))
	})
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("other")))

	assert.ErrorIs(t, MapUniqueViolation(unique, store.ErrDeckNameTaken), store.ErrDeckNameTaken)
	assert.Same(t, fk, MapUniqueViolation(fk, store.ErrDeckNameTaken))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrDeckNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrDeckNotFound), store.ErrDeckNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, nil))

	failing := sqlmock.NewErrorResult(errors.New("driver"))
	assert.ErrorContains(t, CheckRowsAffected(failing, nil), "failed to get rows affected")
}
