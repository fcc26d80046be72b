package mocks

import (
	"context"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service"
)

// MockDeckService implements service.DeckService for testing.
type MockDeckService struct {
	ListDecksFn  func(ctx context.Context) ([]*domain.Deck, error)
	GetDeckFn    func(ctx context.Context, deckID int64) (*domain.Deck, error)
	CreateDeckFn func(ctx context.Context, name string) (*domain.Deck, error)
	RenameDeckFn func(ctx context.Context, deckID int64, name string) (*domain.Deck, error)
	DeleteDeckFn func(ctx context.Context, deckID int64) error

	Deck         *domain.Deck
	DefaultError error
}

var _ service.DeckService = (*MockDeckService)(nil)

func (m *MockDeckService) ListDecks(ctx context.Context) ([]*domain.Deck, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx)
	}
	return []*domain.Deck{}, m.DefaultError
}

func (m *MockDeckService) GetDeck(ctx context.Context, deckID int64) (*domain.Deck, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, deckID)
	}
	return m.Deck, m.DefaultError
}

func (m *MockDeckService) CreateDeck(ctx context.Context, name string) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, name)
	}
	return m.Deck, m.DefaultError
}

func (m *MockDeckService) RenameDeck(ctx context.Context, deckID int64, name string) (*domain.Deck, error) {
	if m.RenameDeckFn != nil {
		return m.RenameDeckFn(ctx, deckID, name)
	}
	return m.Deck, m.DefaultError
}

func (m *MockDeckService) DeleteDeck(ctx context.Context, deckID int64) error {
	if m.DeleteDeckFn != nil {
		return m.DeleteDeckFn(ctx, deckID)
	}
	return m.DefaultError
}

// MockFlashcardService implements service.FlashcardService for testing.
type MockFlashcardService struct {
	ListFlashcardsFn   func(ctx context.Context, deckID int64) ([]*domain.Flashcard, error)
	SearchFlashcardsFn func(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, string, error)
	GetFlashcardFn     func(ctx context.Context, deckID, cardID int64) (*domain.Flashcard, error)
	CreateFlashcardFn  func(ctx context.Context, deckID int64, front, back string) (*domain.Flashcard, error)
	CheckFlashcardFn   func(front, back string) error
	CreateFlashcardsFn func(ctx context.Context, deckID int64, inputs []service.FlashcardInput) ([]*domain.Flashcard, error)
	UpdateFlashcardFn  func(ctx context.Context, deckID, cardID int64, front, back string) (*domain.Flashcard, error)
	DeleteFlashcardFn  func(ctx context.Context, deckID, cardID int64) error

	Flashcard    *domain.Flashcard
	DefaultError error
}

var _ service.FlashcardService = (*MockFlashcardService)(nil)

func (m *MockFlashcardService) ListFlashcards(ctx context.Context, deckID int64) ([]*domain.Flashcard, error) {
	if m.ListFlashcardsFn != nil {
		return m.ListFlashcardsFn(ctx, deckID)
	}
	return []*domain.Flashcard{}, m.DefaultError
}

func (m *MockFlashcardService) SearchFlashcards(
	ctx context.Context,
	deckID int64,
	term string,
) ([]*domain.Flashcard, string, error) {
	if m.SearchFlashcardsFn != nil {
		return m.SearchFlashcardsFn(ctx, deckID, term)
	}
	return []*domain.Flashcard{}, term, m.DefaultError
}

func (m *MockFlashcardService) GetFlashcard(ctx context.Context, deckID, cardID int64) (*domain.Flashcard, error) {
	if m.GetFlashcardFn != nil {
		return m.GetFlashcardFn(ctx, deckID, cardID)
	}
	return m.Flashcard, m.DefaultError
}

func (m *MockFlashcardService) CreateFlashcard(
	ctx context.Context,
	deckID int64,
	front, back string,
) (*domain.Flashcard, error) {
	if m.CreateFlashcardFn != nil {
		return m.CreateFlashcardFn(ctx, deckID, front, back)
	}
	return m.Flashcard, m.DefaultError
}

func (m *MockFlashcardService) CheckFlashcard(front, back string) error {
	if m.CheckFlashcardFn != nil {
		return m.CheckFlashcardFn(front, back)
	}
	return nil
}

func (m *MockFlashcardService) CreateFlashcards(
	ctx context.Context,
	deckID int64,
	inputs []service.FlashcardInput,
) ([]*domain.Flashcard, error) {
	if m.CreateFlashcardsFn != nil {
		return m.CreateFlashcardsFn(ctx, deckID, inputs)
	}
	return []*domain.Flashcard{}, m.DefaultError
}

func (m *MockFlashcardService) UpdateFlashcard(
	ctx context.Context,
	deckID, cardID int64,
	front, back string,
) (*domain.Flashcard, error) {
	if m.UpdateFlashcardFn != nil {
		return m.UpdateFlashcardFn(ctx, deckID, cardID, front, back)
	}
	return m.Flashcard, m.DefaultError
}

func (m *MockFlashcardService) DeleteFlashcard(ctx context.Context, deckID, cardID int64) error {
	if m.DeleteFlashcardFn != nil {
		return m.DeleteFlashcardFn(ctx, deckID, cardID)
	}
	return m.DefaultError
}

// MockStudyService implements service.StudyService for testing.
type MockStudyService struct {
	NextCardFn  func(ctx context.Context, sessionID string, deckID int64) (*service.StudyCard, error)
	RepeatFn    func(ctx context.Context, sessionID string, deckID, cardID int64) error
	StartOverFn func(ctx context.Context, sessionID string, deckID int64) error
	ContinueFn  func(ctx context.Context, sessionID string, deckID int64) error

	StudyCard    *service.StudyCard
	DefaultError error
}

var _ service.StudyService = (*MockStudyService)(nil)

func (m *MockStudyService) NextCard(ctx context.Context, sessionID string, deckID int64) (*service.StudyCard, error) {
	if m.NextCardFn != nil {
		return m.NextCardFn(ctx, sessionID, deckID)
	}
	return m.StudyCard, m.DefaultError
}

func (m *MockStudyService) Repeat(ctx context.Context, sessionID string, deckID, cardID int64) error {
	if m.RepeatFn != nil {
		return m.RepeatFn(ctx, sessionID, deckID, cardID)
	}
	return m.DefaultError
}

func (m *MockStudyService) StartOver(ctx context.Context, sessionID string, deckID int64) error {
	if m.StartOverFn != nil {
		return m.StartOverFn(ctx, sessionID, deckID)
	}
	return m.DefaultError
}

func (m *MockStudyService) Continue(ctx context.Context, sessionID string, deckID int64) error {
	if m.ContinueFn != nil {
		return m.ContinueFn(ctx, sessionID, deckID)
	}
	return m.DefaultError
}
