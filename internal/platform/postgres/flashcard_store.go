package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a flashcard store on db, which may be a
// pool or a transaction. If logger is nil, the default logger is used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

const flashcardColumns = `id, deck_id, front, back, created_at, updated_at`

// WithTx implements store.FlashcardStore.WithTx.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// Create implements store.FlashcardStore.Create.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO flashcards (deck_id, front, back)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, card.DeckID, card.Front, card.Back).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("flashcard references missing deck", slog.Int64("deck_id", card.DeckID))
			return store.ErrDeckNotFound
		}
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return store.NewStoreError("flashcard", "create", "insert failed", MapError(err))
	}

	log.Debug("flashcard created",
		slog.Int64("flashcard_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return nil
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple. It stops at
// the first failure; atomicity comes from the enclosing transaction.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("flashcards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id int64) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1`
	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.Int64("flashcard_id", id))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return nil, store.NewStoreError("flashcard", "get", "query failed", MapError(err))
	}
	return card, nil
}

// ListByDeck implements store.FlashcardStore.ListByDeck.
func (s *PostgresFlashcardStore) ListByDeck(ctx context.Context, deckID int64) ([]*domain.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE deck_id = $1 ORDER BY id`
	return s.queryFlashcards(ctx, "list", query, deckID)
}

// Search implements store.FlashcardStore.Search. LIKE wildcards in term
// match literally.
func (s *PostgresFlashcardStore) Search(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, error) {
	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE deck_id = $1
		  AND (front ILIKE $2 OR back ILIKE $2)
		ORDER BY id
	`
	return s.queryFlashcards(ctx, "search", query, deckID, "%"+escapeLike(term)+"%")
}

// ListFlashcardIDs implements store.FlashcardStore.ListFlashcardIDs.
func (s *PostgresFlashcardStore) ListFlashcardIDs(ctx context.Context, deckID int64) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM flashcards WHERE deck_id = $1 ORDER BY id`, deckID)
	if err != nil {
		log.Error("failed to list flashcard ids",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, store.NewStoreError("flashcard", "list ids", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("flashcard", "list ids", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("flashcard", "list ids", "row iteration failed", err)
	}
	return ids, nil
}

// Update implements store.FlashcardStore.Update.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateFlashcardSides(card.Front, card.Back); err != nil {
		return err
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING deck_id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, card.Front, card.Back, card.ID).
		Scan(&card.DeckID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrFlashcardNotFound
		}
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", card.ID))
		return store.NewStoreError("flashcard", "update", "update failed", MapError(err))
	}

	log.Info("flashcard updated", slog.Int64("flashcard_id", card.ID))
	return nil
}

// Delete implements store.FlashcardStore.Delete.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return store.NewStoreError("flashcard", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	log.Info("flashcard deleted", slog.Int64("flashcard_id", id))
	return nil
}

func (s *PostgresFlashcardStore) queryFlashcards(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query flashcards",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("flashcard", operation, "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, store.NewStoreError("flashcard", operation, "scan failed", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("flashcard", operation, "row iteration failed", err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	err := row.Scan(&card.ID, &card.DeckID, &card.Front, &card.Back, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
