package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedShuffler applies a fixed list of swaps regardless of n.
type scriptedShuffler struct {
	swaps [][2]int
}

func (s scriptedShuffler) Shuffle(_ int, swap func(i, j int)) {
	for _, p := range s.swaps {
		swap(p[0], p[1])
	}
}

func TestNewQueue_ShufflesCopy(t *testing.T) {
	input := []int64{1, 2, 3}
	q := NewQueue(7, input, scriptedShuffler{swaps: [][2]int{{0, 2}, {1, 2}}})

	assert.Equal(t, int64(7), q.DeckID)
	assert.Equal(t, []int64{3, 1, 2}, q.Remaining)
	assert.Equal(t, []int64{1, 2, 3}, input, "input must not be modified")
}

func TestNewQueue_Empty(t *testing.T) {
	q := NewQueue(1, nil, defaultShuffler{})

	assert.True(t, q.Exhausted())
	assert.Equal(t, 0, q.Len())
	assert.NotNil(t, q.Remaining)
}

func TestQueue_DrawTakesLast(t *testing.T) {
	q := &Queue{DeckID: 1, Remaining: []int64{3, 1, 2}}

	id, ok := q.Draw()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, []int64{3, 1}, q.Remaining)

	id, ok = q.Draw()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok = q.Draw()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)

	_, ok = q.Draw()
	assert.False(t, ok)
	assert.True(t, q.Exhausted())
}

func TestQueue_RepeatPrepends(t *testing.T) {
	q := &Queue{DeckID: 1, Remaining: []int64{3, 1}}

	assert.True(t, q.Repeat(2))
	assert.Equal(t, []int64{2, 3, 1}, q.Remaining)
}

func TestQueue_RepeatPendingCardIsNoop(t *testing.T) {
	q := &Queue{DeckID: 1, Remaining: []int64{3, 1}}

	assert.False(t, q.Repeat(3))
	assert.Equal(t, []int64{3, 1}, q.Remaining)
}

func TestQueue_RepeatOnExhausted(t *testing.T) {
	q := &Queue{DeckID: 1, Remaining: []int64{}}

	assert.True(t, q.Repeat(5))
	id, ok := q.Draw()
	require.True(t, ok)
	assert.Equal(t, int64(5), id)
}

func TestSeededShuffler_Deterministic(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	a := NewQueue(1, ids, NewSeededShuffler(42, 7))
	b := NewQueue(1, ids, NewSeededShuffler(42, 7))

	assert.Equal(t, a.Remaining, b.Remaining)
	assert.ElementsMatch(t, ids, a.Remaining)
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	key := queueKey{sessionID: "s", deckID: 1}

	unlock := k.lock(key)
	assert.Len(t, k.locks, 1)
	unlock()
	assert.Empty(t, k.locks)
}
