package study

// Queue is the ordered pool of flashcard IDs not yet shown in the current
// pass over a deck. The last element of Remaining is drawn next.
type Queue struct {
	DeckID    int64
	Remaining []int64
}

// NewQueue builds a queue holding a random permutation of cardIDs.
// The input slice is not modified.
func NewQueue(deckID int64, cardIDs []int64, shuffler Shuffler) *Queue {
	remaining := make([]int64, len(cardIDs))
	copy(remaining, cardIDs)

	shuffler.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	return &Queue{DeckID: deckID, Remaining: remaining}
}

// Len returns the number of cards left in the pass.
func (q *Queue) Len() int {
	return len(q.Remaining)
}

// Exhausted reports whether no cards are left.
func (q *Queue) Exhausted() bool {
	return len(q.Remaining) == 0
}

// Draw removes and returns the last card. ok is false when the queue is
// exhausted.
func (q *Queue) Draw() (cardID int64, ok bool) {
	n := len(q.Remaining)
	if n == 0 {
		return 0, false
	}

	cardID = q.Remaining[n-1]
	q.Remaining = q.Remaining[:n-1]
	return cardID, true
}

// Repeat puts cardID at the front of the queue, so it is drawn after every
// card currently pending. A card that is already pending is left where it
// is and Repeat returns false.
func (q *Queue) Repeat(cardID int64) bool {
	if q.Contains(cardID) {
		return false
	}

	remaining := make([]int64, 0, len(q.Remaining)+1)
	remaining = append(remaining, cardID)
	q.Remaining = append(remaining, q.Remaining...)
	return true
}

// Contains reports whether cardID is pending.
func (q *Queue) Contains(cardID int64) bool {
	for _, id := range q.Remaining {
		if id == cardID {
			return true
		}
	}
	return false
}
