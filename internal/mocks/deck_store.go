package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// MockDeckStore implements store.DeckStore for testing.
type MockDeckStore struct {
	CreateFn  func(ctx context.Context, deck *domain.Deck) error
	GetByIDFn func(ctx context.Context, id int64) (*domain.Deck, error)
	ListFn    func(ctx context.Context) ([]*domain.Deck, error)
	RenameFn  func(ctx context.Context, id int64, name string) error
	DeleteFn  func(ctx context.Context, id int64) error

	DefaultError error
}

var _ store.DeckStore = (*MockDeckStore)(nil)

// Create implements store.DeckStore.Create.
func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	return m.DefaultError
}

// GetByID implements store.DeckStore.GetByID. Without GetByIDFn it
// returns store.ErrDeckNotFound unless DefaultError is set.
func (m *MockDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, store.ErrDeckNotFound
}

// List implements store.DeckStore.List.
func (m *MockDeckStore) List(ctx context.Context) ([]*domain.Deck, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.Deck{}, m.DefaultError
}

// Rename implements store.DeckStore.Rename.
func (m *MockDeckStore) Rename(ctx context.Context, id int64, name string) error {
	if m.RenameFn != nil {
		return m.RenameFn(ctx, id, name)
	}
	return m.DefaultError
}

// Delete implements store.DeckStore.Delete.
func (m *MockDeckStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// WithTx returns the mock itself.
func (m *MockDeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}
