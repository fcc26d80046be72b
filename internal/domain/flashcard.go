package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxFlashcardSideLength is the exclusive upper bound on the length of
// either side of a card.
const MaxFlashcardSideLength = 280

// Flashcard-specific validation errors
var (
	ErrFlashcardDeckEmpty = errors.New("flashcard must belong to a deck")
	ErrFlashcardEmpty     = errors.New("front and back cannot be empty")
	ErrFlashcardTooLong   = errors.New("front and back must be less than 280 characters")
)

// Flashcard is a front/back text pair belonging to one deck.
type Flashcard struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard creates a Flashcard for deckID with trimmed sides.
// Returns an error if validation fails.
func NewFlashcard(deckID int64, front, back string) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		DeckID:    deckID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.DeckID <= 0 {
		return NewValidationError("deck_id", ErrFlashcardDeckEmpty)
	}
	return ValidateFlashcardSides(f.Front, f.Back)
}

// ValidateFlashcardSides checks that both sides are non-empty and shorter
// than MaxFlashcardSideLength characters.
func ValidateFlashcardSides(front, back string) error {
	if front == "" {
		return NewValidationError("front", ErrFlashcardEmpty)
	}
	if back == "" {
		return NewValidationError("back", ErrFlashcardEmpty)
	}
	if utf8.RuneCountInString(front) >= MaxFlashcardSideLength {
		return NewValidationError("front", ErrFlashcardTooLong)
	}
	if utf8.RuneCountInString(back) >= MaxFlashcardSideLength {
		return NewValidationError("back", ErrFlashcardTooLong)
	}
	return nil
}

// UpdateContent replaces both sides after validation, leaving the card
// unchanged on error.
func (f *Flashcard) UpdateContent(front, back string) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	if err := ValidateFlashcardSides(front, back); err != nil {
		return err
	}

	f.Front = front
	f.Back = back
	f.UpdatedAt = time.Now().UTC()
	return nil
}
