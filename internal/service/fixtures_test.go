package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/mocks"
	"github.com/phrazzld/flashdeck/internal/store"
)

// cardFixture backs the store mocks with maps so services can be exercised
// end to end without a database.
type cardFixture struct {
	mu     sync.Mutex
	decks  map[int64]*domain.Deck
	cards  map[int64]*domain.Flashcard
	nextID int64
}

func newCardFixture() *cardFixture {
	return &cardFixture{
		decks:  make(map[int64]*domain.Deck),
		cards:  make(map[int64]*domain.Flashcard),
		nextID: 100,
	}
}

func (f *cardFixture) addDeck(id int64, name string) *domain.Deck {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &domain.Deck{ID: id, Name: name}
	f.decks[id] = d
	return d
}

func (f *cardFixture) addCard(id, deckID int64, front, back string) *domain.Flashcard {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &domain.Flashcard{ID: id, DeckID: deckID, Front: front, Back: back}
	f.cards[id] = c
	return c
}

func (f *cardFixture) removeCard(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cards, id)
}

func (f *cardFixture) deckStore() *mocks.MockDeckStore {
	return &mocks.MockDeckStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Deck, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			d, ok := f.decks[id]
			if !ok {
				return nil, store.ErrDeckNotFound
			}
			copied := *d
			return &copied, nil
		},
	}
}

func (f *cardFixture) flashcardStore() *mocks.MockFlashcardStore {
	return &mocks.MockFlashcardStore{
		CreateFn: func(_ context.Context, card *domain.Flashcard) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.decks[card.DeckID]; !ok {
				return store.ErrDeckNotFound
			}
			f.nextID++
			card.ID = f.nextID
			copied := *card
			f.cards[card.ID] = &copied
			return nil
		},
		GetByIDFn: func(_ context.Context, id int64) (*domain.Flashcard, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			c, ok := f.cards[id]
			if !ok {
				return nil, store.ErrFlashcardNotFound
			}
			copied := *c
			return &copied, nil
		},
		ListFlashcardIDsFn: func(_ context.Context, deckID int64) ([]int64, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			ids := []int64{}
			for id, c := range f.cards {
				if c.DeckID == deckID {
					ids = append(ids, id)
				}
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			return ids, nil
		},
	}
}
