// Package domain contains the core business entities of the flashcard
// application (decks and flashcards) together with their validation rules.
// It is independent of any storage or delivery mechanism.
package domain
