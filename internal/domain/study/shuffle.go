package study

import (
	"math/rand/v2"
	"sync"
)

// Shuffler produces random permutations. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// defaultShuffler uses the auto-seeded, concurrency-safe global source.
type defaultShuffler struct{}

func (defaultShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// lockedShuffler guards a seeded *rand.Rand, which is not safe for
// concurrent use on its own.
type lockedShuffler struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededShuffler returns a deterministic Shuffler. Equal seeds produce
// equal permutation sequences.
func NewSeededShuffler(seed1, seed2 uint64) Shuffler {
	return &lockedShuffler{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *lockedShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}
