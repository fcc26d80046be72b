package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashdeck/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create inserts the flashcard and sets its ID and timestamps.
	// Returns ErrDeckNotFound if the deck does not exist.
	Create(ctx context.Context, card *domain.Flashcard) error

	// CreateMultiple inserts several flashcards. It should run inside a
	// transaction (see WithTx and RunInTransaction) so that either all
	// cards are stored or none.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID returns ErrFlashcardNotFound if the flashcard does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Flashcard, error)

	// ListByDeck returns the deck's flashcards ordered by ID.
	ListByDeck(ctx context.Context, deckID int64) ([]*domain.Flashcard, error)

	// ListFlashcardIDs returns the IDs of the deck's flashcards ordered by ID.
	// An unknown deck yields an empty slice.
	ListFlashcardIDs(ctx context.Context, deckID int64) ([]int64, error)

	// Search returns the deck's flashcards whose front or back contains term,
	// ignoring case, ordered by ID.
	Search(ctx context.Context, deckID int64, term string) ([]*domain.Flashcard, error)

	// Update saves new front and back text.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete returns ErrFlashcardNotFound if the flashcard does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a FlashcardStore bound to tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
