package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/redact"
	"github.com/phrazzld/flashdeck/internal/store"
)

// FlashcardInput is the raw front and back text of a card to create.
type FlashcardInput struct {
	Front string
	Back  string
}

// FlashcardService provides flashcard management operations. Every
// operation is scoped to a deck; addressing a card through another deck
// yields ErrCardNotInDeck.
type FlashcardService interface {
	ListFlashcards(ctx context.Context, deckID int64) ([]*domain.Flashcard, error)

	// SearchFlashcards normalises term and returns it with the matches.
	SearchFlashcards(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, string, error)

	GetFlashcard(ctx context.Context, deckID, cardID int64) (*domain.Flashcard, error)
	CreateFlashcard(ctx context.Context, deckID int64, front, back string) (*domain.Flashcard, error)

	// CheckFlashcard reports whether front and back would be accepted,
	// without storing anything.
	CheckFlashcard(front, back string) error

	// CreateFlashcards stores all inputs in one transaction. It fails
	// without storing anything if any input is invalid.
	CreateFlashcards(ctx context.Context, deckID int64, inputs []FlashcardInput) ([]*domain.Flashcard, error)

	UpdateFlashcard(ctx context.Context, deckID, cardID int64, front, back string) (*domain.Flashcard, error)
	DeleteFlashcard(ctx context.Context, deckID, cardID int64) error
}

type flashcardServiceImpl struct {
	db        *sql.DB
	decks     store.DeckStore
	cards     store.FlashcardStore
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewFlashcardService creates a FlashcardService. db is used for the
// transaction in CreateFlashcards.
func NewFlashcardService(
	db *sql.DB,
	decks store.DeckStore,
	cards store.FlashcardStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", errors.New("cannot be nil"))
	}
	if decks == nil {
		return nil, domain.NewValidationError("decks", errors.New("cannot be nil"))
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", errors.New("cannot be nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:        db,
		decks:     decks,
		cards:     cards,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// sanitize trims s and strips markup the UGC policy does not allow. The
// result is safe to render as HTML.
func (s *flashcardServiceImpl) sanitize(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(text)))
}

func (s *flashcardServiceImpl) newFlashcard(deckID int64, front, back string) (*domain.Flashcard, error) {
	return domain.NewFlashcard(deckID, s.sanitize(front), s.sanitize(back))
}

func (s *flashcardServiceImpl) requireDeck(ctx context.Context, deckID int64) error {
	if deckID <= 0 {
		return store.ErrDeckNotFound
	}
	if _, err := s.decks.GetByID(ctx, deckID); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrDeckNotFound
		}
		return NewServiceError("flashcard", "get_deck", "failed to retrieve deck", err)
	}
	return nil
}

func (s *flashcardServiceImpl) ListFlashcards(ctx context.Context, deckID int64) ([]*domain.Flashcard, error) {
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("flashcard", "list", "failed to list flashcards", err)
	}
	return cards, nil
}

func (s *flashcardServiceImpl) SearchFlashcards(
	ctx context.Context,
	deckID int64,
	term string,
) ([]*domain.Flashcard, string, error) {
	term, err := domain.NormalizeSearchTerm(term)
	if err != nil {
		return nil, "", err
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, term, err
	}

	cards, err := s.cards.Search(ctx, deckID, term)
	if err != nil {
		return nil, term, NewServiceError("flashcard", "search", "failed to search flashcards", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("flashcard search",
		slog.Int64("deck_id", deckID),
		slog.Int("matches", len(cards)))
	return cards, term, nil
}

func (s *flashcardServiceImpl) GetFlashcard(ctx context.Context, deckID, cardID int64) (*domain.Flashcard, error) {
	if cardID <= 0 {
		return nil, store.ErrFlashcardNotFound
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, NewServiceError("flashcard", "get", "failed to retrieve flashcard", err)
	}
	if card.DeckID != deckID {
		return nil, ErrCardNotInDeck
	}
	return card, nil
}

func (s *flashcardServiceImpl) CreateFlashcard(
	ctx context.Context,
	deckID int64,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.newFlashcard(deckID, front, back)
	if err != nil {
		return nil, err
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to create flashcard",
			slog.String("error", redact.Error(err)),
			slog.Int64("deck_id", deckID))
		return nil, NewServiceError("flashcard", "create", "failed to save flashcard", err)
	}

	log.Info("flashcard created",
		slog.Int64("flashcard_id", card.ID),
		slog.Int64("deck_id", deckID))
	return card, nil
}

func (s *flashcardServiceImpl) CheckFlashcard(front, back string) error {
	return domain.ValidateFlashcardSides(s.sanitize(front), s.sanitize(back))
}

func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	deckID int64,
	inputs []FlashcardInput,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(inputs) == 0 {
		log.Debug("no flashcards to create")
		return []*domain.Flashcard{}, nil
	}

	cards := make([]*domain.Flashcard, 0, len(inputs))
	for _, in := range inputs {
		card, err := s.newFlashcard(deckID, in.Front, in.Back)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to create flashcards in transaction",
			slog.String("error", redact.Error(err)),
			slog.Int64("deck_id", deckID))
		return nil, NewServiceError("flashcard", "create_multiple", "failed to save flashcards", err)
	}

	log.Info("flashcards created",
		slog.Int64("deck_id", deckID),
		slog.Int("count", len(cards)))
	return cards, nil
}

func (s *flashcardServiceImpl) UpdateFlashcard(
	ctx context.Context,
	deckID, cardID int64,
	front, back string,
) (*domain.Flashcard, error) {
	card, err := s.GetFlashcard(ctx, deckID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(s.sanitize(front), s.sanitize(back)); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, NewServiceError("flashcard", "update", "failed to update flashcard", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("flashcard updated", slog.Int64("flashcard_id", cardID))
	return card, nil
}

func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, deckID, cardID int64) error {
	if _, err := s.GetFlashcard(ctx, deckID, cardID); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrFlashcardNotFound
		}
		return NewServiceError("flashcard", "delete", "failed to delete flashcard", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("flashcard deleted", slog.Int64("flashcard_id", cardID))
	return nil
}
