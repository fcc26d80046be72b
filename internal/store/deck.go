package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashdeck/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create inserts the deck and sets its ID and CreatedAt.
	// Returns ErrDeckNameTaken if another deck has the same name.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deck, error)

	// List returns all decks ordered by name.
	List(ctx context.Context) ([]*domain.Deck, error)

	// Rename changes a deck's name.
	// Returns ErrDeckNotFound or ErrDeckNameTaken.
	Rename(ctx context.Context, id int64, name string) error

	// Delete removes the deck together with its flashcards and study queues.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a DeckStore bound to tx.
	WithTx(tx *sql.Tx) DeckStore
}
