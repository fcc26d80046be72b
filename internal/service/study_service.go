package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/domain/study"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// StudyCard is the result of drawing from a deck's study queue. Card is nil
// when the current pass is exhausted.
type StudyCard struct {
	Deck      *domain.Deck
	Card      *domain.Flashcard
	Remaining int
}

// Exhausted reports whether the pass has no card to show.
func (c *StudyCard) Exhausted() bool {
	return c.Card == nil
}

// StudyService adapts the queue engine to a browsing session.
type StudyService interface {
	// NextCard draws the next card of the session's pass over the deck,
	// starting a new pass if none exists.
	NextCard(ctx context.Context, sessionID string, deckID int64) (*StudyCard, error)

	// Repeat schedules the card to be shown again at the end of the pass.
	Repeat(ctx context.Context, sessionID string, deckID, cardID int64) error

	// StartOver discards the current pass.
	StartOver(ctx context.Context, sessionID string, deckID int64) error

	// Continue starts over only if the current pass is exhausted.
	Continue(ctx context.Context, sessionID string, deckID int64) error
}

type studyServiceImpl struct {
	decks  store.DeckStore
	cards  store.FlashcardStore
	engine *study.Engine
	logger *slog.Logger
}

// NewStudyService creates a StudyService. The engine should draw card IDs
// from the same flashcard store.
func NewStudyService(
	decks store.DeckStore,
	cards store.FlashcardStore,
	engine *study.Engine,
	logger *slog.Logger,
) (StudyService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", errors.New("cannot be nil"))
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", errors.New("cannot be nil"))
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", errors.New("cannot be nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		decks:  decks,
		cards:  cards,
		engine: engine,
		logger: logger.With(slog.String("component", "study_service")),
	}, nil
}

func (s *studyServiceImpl) getDeck(ctx context.Context, deckID int64) (*domain.Deck, error) {
	if deckID <= 0 {
		return nil, store.ErrDeckNotFound
	}
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDeckNotFound
		}
		return nil, NewServiceError("study", "get_deck", "failed to retrieve deck", err)
	}
	return deck, nil
}

func (s *studyServiceImpl) NextCard(ctx context.Context, sessionID string, deckID int64) (*StudyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.getDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	result := &StudyCard{Deck: deck}
	for {
		cardID, remaining, ok, err := s.engine.DrawNext(ctx, sessionID, deckID)
		if err != nil {
			return nil, NewServiceError("study", "next_card", "failed to draw card", err)
		}
		result.Remaining = remaining
		if !ok {
			break
		}

		card, err := s.cards.GetByID(ctx, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				log.Debug("skipping deleted flashcard", slog.Int64("flashcard_id", cardID))
				continue
			}
			return nil, NewServiceError("study", "next_card", "failed to load flashcard", err)
		}
		if card.DeckID != deckID {
			log.Debug("skipping flashcard moved out of deck", slog.Int64("flashcard_id", cardID))
			continue
		}

		result.Card = card
		break
	}

	return result, nil
}

func (s *studyServiceImpl) Repeat(ctx context.Context, sessionID string, deckID, cardID int64) error {
	if _, err := s.getDeck(ctx, deckID); err != nil {
		return err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrFlashcardNotFound
		}
		return NewServiceError("study", "repeat", "failed to load flashcard", err)
	}
	if card.DeckID != deckID {
		return ErrCardNotInDeck
	}

	queued, err := s.engine.Repeat(ctx, sessionID, deckID, cardID)
	if err != nil {
		return NewServiceError("study", "repeat", "failed to queue card", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("repeat requested",
		slog.Int64("deck_id", deckID),
		slog.Int64("flashcard_id", cardID),
		slog.Bool("queued", queued))
	return nil
}

func (s *studyServiceImpl) StartOver(ctx context.Context, sessionID string, deckID int64) error {
	if _, err := s.getDeck(ctx, deckID); err != nil {
		return err
	}
	if err := s.engine.Reset(ctx, sessionID, deckID); err != nil {
		return NewServiceError("study", "start_over", "failed to reset queue", err)
	}
	return nil
}

func (s *studyServiceImpl) Continue(ctx context.Context, sessionID string, deckID int64) error {
	if _, err := s.getDeck(ctx, deckID); err != nil {
		return err
	}

	n, exists, err := s.engine.Pending(ctx, sessionID, deckID)
	if err != nil {
		return NewServiceError("study", "continue", "failed to inspect queue", err)
	}
	if exists && n == 0 {
		if err := s.engine.Reset(ctx, sessionID, deckID); err != nil {
			return NewServiceError("study", "continue", "failed to reset queue", err)
		}
	}
	return nil
}
