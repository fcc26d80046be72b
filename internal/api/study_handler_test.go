package api_test

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"testing"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/domain/study"
	"github.com/phrazzld/flashdeck/internal/mocks"
	"github.com/phrazzld/flashdeck/internal/platform/memory"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardIDPattern = regexp.MustCompile(`data-card-id="(\d+)"`)

// newStudyServer serves a real study service over two decks: deck 1 with
// cards 10, 20 and 30, and deck 2 with card 40.
func newStudyServer(t *testing.T) string {
	t.Helper()

	decks := map[int64]*domain.Deck{
		1: {ID: 1, Name: "Spanish"},
		2: {ID: 2, Name: "German"},
	}
	cards := map[int64]*domain.Flashcard{
		10: {ID: 10, DeckID: 1, Front: "uno", Back: "one"},
		20: {ID: 20, DeckID: 1, Front: "dos", Back: "two"},
		30: {ID: 30, DeckID: 1, Front: "tres", Back: "three"},
		40: {ID: 40, DeckID: 2, Front: "eins", Back: "one"},
	}

	deckStore := &mocks.MockDeckStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Deck, error) {
			if d, ok := decks[id]; ok {
				return d, nil
			}
			return nil, store.ErrDeckNotFound
		},
	}
	cardStore := &mocks.MockFlashcardStore{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Flashcard, error) {
			if c, ok := cards[id]; ok {
				return c, nil
			}
			return nil, store.ErrFlashcardNotFound
		},
		ListFlashcardIDsFn: func(_ context.Context, deckID int64) ([]int64, error) {
			var ids []int64
			for _, id := range []int64{10, 20, 30, 40} {
				if cards[id].DeckID == deckID {
					ids = append(ids, id)
				}
			}
			return ids, nil
		},
	}

	engine, err := study.NewEngine(cardStore, memory.NewStudyStateStore(nil), nil,
		study.WithShuffler(study.NewSeededShuffler(7, 11)))
	require.NoError(t, err)
	studyService, err := service.NewStudyService(deckStore, cardStore, engine, nil)
	require.NoError(t, err)

	server := newTestServer(t, testDeps{study: studyService})
	return server.URL
}

// drawCard loads the study page and returns the shown card id, or 0 when
// the pass is exhausted.
func drawCard(t *testing.T, c *http.Client, rawURL string) int64 {
	t.Helper()
	p := get(t, c, rawURL)
	require.Equal(t, http.StatusOK, p.status)

	m := cardIDPattern.FindStringSubmatch(p.body)
	if m == nil {
		require.Contains(t, p.body, "You have gone through every flashcard in this deck.")
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	return id
}

func drainDeck(t *testing.T, c *http.Client, rawURL string) []int64 {
	t.Helper()
	var ids []int64
	for i := 0; i < 10; i++ {
		id := drawCard(t, c, rawURL)
		if id == 0 {
			return ids
		}
		ids = append(ids, id)
	}
	t.Fatalf("study pass did not end: %v", ids)
	return nil
}

func TestStudyFlow(t *testing.T) {
	t.Parallel()

	t.Run("one pass shows every card once", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)

		drawn := drainDeck(t, c, base+"/1/study")
		assert.ElementsMatch(t, []int64{10, 20, 30}, drawn)

		assert.Equal(t, int64(0), drawCard(t, c, base+"/1/study"), "exhausted pass stays exhausted")
	})

	t.Run("submitting on an exhausted pass starts a new one", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)
		drainDeck(t, c, base+"/1/study")

		p := post(t, c, base+"/1/study", nil)
		assert.Equal(t, http.StatusSeeOther, p.status)
		assert.Equal(t, "/1/study", p.location)

		assert.ElementsMatch(t, []int64{10, 20, 30}, drainDeck(t, c, base+"/1/study"))
	})

	t.Run("submitting mid-pass changes nothing", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)
		first := drawCard(t, c, base+"/1/study")

		p := post(t, c, base+"/1/study", nil)
		assert.Equal(t, http.StatusSeeOther, p.status)

		rest := drainDeck(t, c, base+"/1/study")
		assert.Len(t, rest, 2)
		assert.NotContains(t, rest, first)
	})

	t.Run("repeated card comes back at the end", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)
		first := drawCard(t, c, base+"/1/study")

		p := post(t, c, base+"/1/study", url.Values{"repeat": {strconv.FormatInt(first, 10)}})
		assert.Equal(t, http.StatusSeeOther, p.status)

		rest := drainDeck(t, c, base+"/1/study")
		require.Len(t, rest, 3)
		assert.Equal(t, first, rest[2])
	})

	t.Run("start over reshuffles the full deck", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)
		drawCard(t, c, base+"/1/study")
		drawCard(t, c, base+"/1/study")

		p := post(t, c, base+"/1/study", url.Values{"start_over": {"1"}})
		assert.Equal(t, http.StatusSeeOther, p.status)

		page := get(t, c, base+"/1/study")
		assert.Contains(t, page.body, "2 left in this pass")
	})

	t.Run("sessions are independent", func(t *testing.T) {
		base := newStudyServer(t)
		alice, bob := newClient(t), newClient(t)

		drainDeck(t, alice, base+"/1/study")
		assert.NotEqual(t, int64(0), drawCard(t, bob, base+"/1/study"))
	})

	t.Run("decks are independent", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)

		drainDeck(t, c, base+"/1/study")
		assert.Equal(t, int64(40), drawCard(t, c, base+"/2/study"))
	})

	t.Run("repeating a card of another deck is a 404", func(t *testing.T) {
		base := newStudyServer(t)
		c := newClient(t)
		drawCard(t, c, base+"/1/study")

		p := post(t, c, base+"/1/study", url.Values{"repeat": {"40"}})
		assert.Equal(t, http.StatusNotFound, p.status)

		p = post(t, c, base+"/1/study", url.Values{"repeat": {"abc"}})
		assert.Equal(t, http.StatusBadRequest, p.status)
	})

	t.Run("unknown deck is a 404", func(t *testing.T) {
		base := newStudyServer(t)
		p := get(t, newClient(t), base+"/9/study")
		assert.Equal(t, http.StatusNotFound, p.status)
		assert.Contains(t, p.body, "Deck not found")
	})
}
