package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Deck name rules.
const (
	MaxDeckNameLength   = 50
	MaxSearchTermLength = 50
)

// Deck-specific validation errors
var (
	ErrDeckNameLength     = errors.New("deck name must be 1 to 50 characters long")
	ErrDeckNameCharacters = errors.New("deck name must only consist of letters, numbers and spaces")
	ErrSearchTermLength   = errors.New("search term must contain 1 to 50 characters")
)

var deckNameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// Deck is a named collection of flashcards.
type Deck struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDeck creates a Deck with a trimmed, validated name. The ID is assigned
// by the store.
func NewDeck(name string) (*Deck, error) {
	deck := &Deck{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks the deck name rules.
func (d *Deck) Validate() error {
	return ValidateDeckName(d.Name)
}

// ValidateDeckName checks that name is 1..50 characters of ASCII letters,
// digits and spaces. Uniqueness is enforced by the store.
func ValidateDeckName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxDeckNameLength {
		return NewValidationError("name", ErrDeckNameLength)
	}
	if deckNameDisallowed.MatchString(name) {
		return NewValidationError("name", ErrDeckNameCharacters)
	}
	return nil
}

// NormalizeSearchTerm trims term and checks its length.
func NormalizeSearchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	n := utf8.RuneCountInString(term)
	if n < 1 || n > MaxSearchTermLength {
		return "", NewValidationError("term", ErrSearchTermLength)
	}
	return term, nil
}
