package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresDeckStore implements store.DeckStore.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a deck store on db, which may be a pool or a
// transaction. If logger is nil, the default logger is used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO decks (name)
		VALUES ($1)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, deck.Name).Scan(&deck.ID, &deck.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("deck name already taken", slog.String("name", deck.Name))
			return MapUniqueViolation(err, store.ErrDeckNameTaken)
		}
		log.Error("failed to create deck", slog.String("error", err.Error()))
		return store.NewStoreError("deck", "create", "insert failed", MapError(err))
	}

	log.Info("deck created", slog.Int64("deck_id", deck.ID))
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM decks
		WHERE id = $1
	`
	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(&deck.ID, &deck.Name, &deck.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck", slog.String("error", err.Error()), slog.Int64("deck_id", id))
		return nil, store.NewStoreError("deck", "get", "query failed", MapError(err))
	}
	return &deck, nil
}

// List implements store.DeckStore.List.
func (s *PostgresDeckStore) List(ctx context.Context) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM decks
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list decks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("deck", "list", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	decks := []*domain.Deck{}
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.CreatedAt); err != nil {
			return nil, store.NewStoreError("deck", "list", "scan failed", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "list", "row iteration failed", err)
	}
	return decks, nil
}

// Rename implements store.DeckStore.Rename.
func (s *PostgresDeckStore) Rename(ctx context.Context, id int64, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateDeckName(name); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE decks SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrDeckNameTaken)
		}
		log.Error("failed to rename deck", slog.String("error", err.Error()), slog.Int64("deck_id", id))
		return store.NewStoreError("deck", "rename", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Info("deck renamed", slog.Int64("deck_id", id))
	return nil
}

// Delete implements store.DeckStore.Delete. Flashcards and study queues
// are removed by ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck", slog.String("error", err.Error()), slog.Int64("deck_id", id))
		return store.NewStoreError("deck", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Info("deck deleted", slog.Int64("deck_id", id))
	return nil
}
