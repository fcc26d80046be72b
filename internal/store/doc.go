// Package store defines the persistence interfaces for decks and flashcards,
// the errors their implementations return, and transaction helpers shared by
// the SQL-backed implementations.
package store
