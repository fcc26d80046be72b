package service_test

import (
	"context"
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

const sessionID = "session-1"

func newStudyService(t *testing.T, f *cardFixture) service.StudyService {
	t.Helper()
	cards := f.flashcardStore()
	engine, err := study.NewEngine(cards, memory.NewStudyStateStore(nil), nil,
		study.WithShuffler(study.NewSeededShuffler(9, 9)))
	require.NoError(t, err)

	svc, err := service.NewStudyService(f.deckStore(), cards, engine, nil)
	require.NoError(t, err)
	return svc
}

func drawAll(t *testing.T, svc service.StudyService, deckID int64) []int64 {
	t.Helper()
	var ids []int64
	for i := 0; i < 100; i++ {
		next, err := svc.NextCard(context.Background(), sessionID, deckID)
		require.NoError(t, err)
		if next.Exhausted() {
			return ids
		}
		ids = append(ids, next.Card.ID)
	}
	t.Fatal("study queue never exhausted")
	return nil
}

func TestNewStudyService(t *testing.T) {
	engine, err := study.NewEngine(&mocks.MockFlashcardStore{}, memory.NewStudyStateStore(nil), nil)
	require.NoError(t, err)

	_, err = service.NewStudyService(nil, &mocks.MockFlashcardStore{}, engine, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewStudyService(&mocks.MockDeckStore{}, nil, engine, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewStudyService(&mocks.MockDeckStore{}, &mocks.MockFlashcardStore{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStudyService_NextCard(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture()
	f.addDeck(1, "Spanish")
	f.addCard(1, 1, "uno", "one")
	f.addCard(2, 1, "dos", "two")
	f.addCard(3, 1, "tres", "three")
	svc := newStudyService(t, f)

	first, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	require.False(t, first.Exhausted())
	assert.Equal(t, "Spanish", first.Deck.Name)
	assert.Equal(t, 2, first.Remaining)

	rest := drawAll(t, svc, 1)
	assert.ElementsMatch(t, []int64{1, 2, 3}, append(rest, first.Card.ID))

	again, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	assert.True(t, again.Exhausted())
	assert.Zero(t, again.Remaining)
}

// loadCountingStates records how often queue state is read.
type loadCountingStates struct {
	study.StateStore
	loads int
}

func (s *loadCountingStates) Load(ctx context.Context, sessionID string) (study.State, error) {
	s.loads++
	return s.StateStore.Load(ctx, sessionID)
}

func TestStudyService_NextCardCountsRemainingWithDraw(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture()
	f.addDeck(1, "Spanish")
	f.addCard(1, 1, "uno", "one")
	f.addCard(2, 1, "dos", "two")
	cards := f.flashcardStore()

	states := &loadCountingStates{StateStore: memory.NewStudyStateStore(nil)}
	engine, err := study.NewEngine(cards, states, nil)
	require.NoError(t, err)
	svc, err := service.NewStudyService(f.deckStore(), cards, engine, nil)
	require.NoError(t, err)

	next, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Remaining)
	assert.Equal(t, 1, states.loads, "remaining must come from the drawing read")
}

func TestStudyService_NextCardUnknownDeck(t *testing.T) {
	svc := newStudyService(t, newCardFixture())

	_, err := svc.NextCard(context.Background(), sessionID, 5)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestStudyService_SkipsDeletedCards(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture()
	f.addDeck(1, "Spanish")
	f.addCard(1, 1, "uno", "one")
	f.addCard(2, 1, "dos", "two")
	f.addCard(3, 1, "tres", "three")
	svc := newStudyService(t, f)

	first, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)

	for _, id := range []int64{1, 2, 3} {
		if id != first.Card.ID {
			f.removeCard(id)
			break
		}
	}

	rest := drawAll(t, svc, 1)
	assert.Len(t, rest, 1)
}

func TestStudyService_Repeat(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture()
	f.addDeck(1, "Spanish")
	f.addDeck(2, "French")
	f.addCard(1, 1, "uno", "one")
	f.addCard(2, 1, "dos", "two")
	f.addCard(9, 2, "un", "one")
	svc := newStudyService(t, f)

	first, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Repeat(ctx, sessionID, 1, first.Card.ID))

	rest := drawAll(t, svc, 1)
	require.Len(t, rest, 2)
	assert.Equal(t, first.Card.ID, rest[1])

	assert.ErrorIs(t, svc.Repeat(ctx, sessionID, 1, 9), service.ErrCardNotInDeck)
	assert.ErrorIs(t, svc.Repeat(ctx, sessionID, 1, 42), store.ErrFlashcardNotFound)
	assert.ErrorIs(t, svc.Repeat(ctx, sessionID, 3, 1), store.ErrDeckNotFound)
}

func TestStudyService_ContinueAndStartOver(t *testing.T) {
	ctx := context.Background()
	f := newCardFixture()
	f.addDeck(1, "Spanish")
	f.addCard(1, 1, "uno", "one")
	f.addCard(2, 1, "dos", "two")
	svc := newStudyService(t, f)

	// No queue yet: nothing to reset.
	require.NoError(t, svc.Continue(ctx, sessionID, 1))

	first, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)

	// Active queue: Continue keeps it.
	require.NoError(t, svc.Continue(ctx, sessionID, 1))
	second, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.Card.ID, second.Card.ID)

	// Exhausted queue: Continue starts a new pass.
	exhausted, err := svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	require.True(t, exhausted.Exhausted())
	require.NoError(t, svc.Continue(ctx, sessionID, 1))
	assert.Len(t, drawAll(t, svc, 1), 2)

	// StartOver discards a pass in progress.
	_, err = svc.NextCard(ctx, sessionID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.StartOver(ctx, sessionID, 1))
	assert.Len(t, drawAll(t, svc, 1), 2)

	assert.ErrorIs(t, svc.StartOver(ctx, sessionID, 8), store.ErrDeckNotFound)
}
