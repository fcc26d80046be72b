package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/redact"
	"github.com/phrazzld/flashdeck/internal/store"
)

// DeckService provides deck management operations.
type DeckService interface {
	ListDecks(ctx context.Context) ([]*domain.Deck, error)

	// GetDeck returns store.ErrDeckNotFound for unknown IDs.
	GetDeck(ctx context.Context, deckID int64) (*domain.Deck, error)

	// CreateDeck trims and validates name. Returns a domain validation
	// error or store.ErrDeckNameTaken.
	CreateDeck(ctx context.Context, name string) (*domain.Deck, error)

	// RenameDeck trims and validates name and returns the updated deck.
	RenameDeck(ctx context.Context, deckID int64, name string) (*domain.Deck, error)

	// DeleteDeck removes the deck with its flashcards and study queues.
	DeleteDeck(ctx context.Context, deckID int64) error
}

type deckServiceImpl struct {
	decks  store.DeckStore
	logger *slog.Logger
}

// NewDeckService creates a DeckService.
func NewDeckService(decks store.DeckStore, logger *slog.Logger) (DeckService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", errors.New("cannot be nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

func (s *deckServiceImpl) ListDecks(ctx context.Context) ([]*domain.Deck, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		return nil, NewServiceError("deck", "list", "failed to list decks", err)
	}
	return decks, nil
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, deckID int64) (*domain.Deck, error) {
	if deckID <= 0 {
		return nil, store.ErrDeckNotFound
	}

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrDeckNotFound
		}
		return nil, NewServiceError("deck", "get", "failed to retrieve deck", err)
	}
	return deck, nil
}

func (s *deckServiceImpl) CreateDeck(ctx context.Context, name string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(name)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		if errors.Is(err, store.ErrDeckNameTaken) {
			return nil, store.ErrDeckNameTaken
		}
		log.Error("failed to create deck", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("deck", "create", "failed to save deck", err)
	}

	log.Info("deck created", slog.Int64("deck_id", deck.ID))
	return deck, nil
}

func (s *deckServiceImpl) RenameDeck(ctx context.Context, deckID int64, name string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	name = strings.TrimSpace(name)
	if err := domain.ValidateDeckName(name); err != nil {
		return nil, err
	}

	deck, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.Name == name {
		return deck, nil
	}

	if err := s.decks.Rename(ctx, deckID, name); err != nil {
		switch {
		case errors.Is(err, store.ErrDeckNameTaken):
			return nil, store.ErrDeckNameTaken
		case store.IsNotFoundError(err):
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to rename deck",
			slog.String("error", redact.Error(err)),
			slog.Int64("deck_id", deckID))
		return nil, NewServiceError("deck", "rename", "failed to update deck", err)
	}

	deck.Name = name
	return deck, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, deckID int64) error {
	if err := s.decks.Delete(ctx, deckID); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrDeckNotFound
		}
		return NewServiceError("deck", "delete", "failed to delete deck", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("deck deleted", slog.Int64("deck_id", deckID))
	return nil
}
