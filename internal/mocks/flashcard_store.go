package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore for testing.
type MockFlashcardStore struct {
	CreateFn           func(ctx context.Context, card *domain.Flashcard) error
	CreateMultipleFn   func(ctx context.Context, cards []*domain.Flashcard) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Flashcard, error)
	ListByDeckFn       func(ctx context.Context, deckID int64) ([]*domain.Flashcard, error)
	ListFlashcardIDsFn func(ctx context.Context, deckID int64) ([]int64, error)
	SearchFn           func(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, error)
	UpdateFn           func(ctx context.Context, card *domain.Flashcard) error
	DeleteFn           func(ctx context.Context, id int64) error

	// WithTxCalls counts calls to WithTx.
	WithTxCalls int

	DefaultError error
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// Create implements store.FlashcardStore.Create.
func (m *MockFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return m.DefaultError
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple.
func (m *MockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return m.DefaultError
}

// GetByID implements store.FlashcardStore.GetByID. Without GetByIDFn it
// returns store.ErrFlashcardNotFound unless DefaultError is set.
func (m *MockFlashcardStore) GetByID(ctx context.Context, id int64) (*domain.Flashcard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, store.ErrFlashcardNotFound
}

// ListByDeck implements store.FlashcardStore.ListByDeck.
func (m *MockFlashcardStore) ListByDeck(ctx context.Context, deckID int64) ([]*domain.Flashcard, error) {
	if m.ListByDeckFn != nil {
		return m.ListByDeckFn(ctx, deckID)
	}
	return []*domain.Flashcard{}, m.DefaultError
}

// ListFlashcardIDs implements store.FlashcardStore.ListFlashcardIDs.
func (m *MockFlashcardStore) ListFlashcardIDs(ctx context.Context, deckID int64) ([]int64, error) {
	if m.ListFlashcardIDsFn != nil {
		return m.ListFlashcardIDsFn(ctx, deckID)
	}
	return []int64{}, m.DefaultError
}

// Search implements store.FlashcardStore.Search.
func (m *MockFlashcardStore) Search(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, deckID, term)
	}
	return []*domain.Flashcard{}, m.DefaultError
}

// Update implements store.FlashcardStore.Update.
func (m *MockFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return m.DefaultError
}

// Delete implements store.FlashcardStore.Delete.
func (m *MockFlashcardStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// WithTx records the call and returns the mock itself.
func (m *MockFlashcardStore) WithTx(*sql.Tx) store.FlashcardStore {
	m.WithTxCalls++
	return m
}
