// Package mocks provides shared mock implementations of the store and
// service interfaces for tests.
//
// Each mock is a struct with one function field per interface method. A nil
// field falls back to the mock's default return values, so tests only set
// the behaviour they care about:
//
//	decks := &mocks.MockDeckStore{
//	    GetByIDFn: func(ctx context.Context, id int64) (*domain.Deck, error) {
//	        return &domain.Deck{ID: id, Name: "Spanish"}, nil
//	    },
//	}
package mocks
