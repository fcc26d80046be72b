// Package service contains the application use cases: managing decks and
// flashcards, and studying a deck through the session-scoped queue engine.
//
// Services validate input with the domain rules, coordinate stores and
// transactions, and return sentinel errors (from this package, domain and
// store) that the API layer maps to responses. They depend on the store
// interfaces, never on a concrete database.
package service
