package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/flashdeck/internal/platform/logger"
)

// State is one session's persisted queues, keyed by deck ID. A key mapped
// to an empty slice is an exhausted queue; a missing key is an absent one.
type State map[int64][]int64

// StateStore persists queue state between requests.
type StateStore interface {
	// Load returns every queue held for the session. An unknown session
	// yields an empty State.
	Load(ctx context.Context, sessionID string) (State, error)

	// Save replaces the queue for one deck.
	Save(ctx context.Context, sessionID string, deckID int64, remaining []int64) error

	// Delete removes the queue for one deck. Deleting an absent queue is
	// not an error.
	Delete(ctx context.Context, sessionID string, deckID int64) error
}

// Locker is implemented by state stores that can serialise the
// read-modify-write of a single queue across processes. fn receives a
// StateStore bound to the locked scope.
type Locker interface {
	WithQueueLock(ctx context.Context, sessionID string, deckID int64, fn func(ctx context.Context, s StateStore) error) error
}

// CardSource lists the flashcards that currently belong to a deck.
type CardSource interface {
	ListFlashcardIDs(ctx context.Context, deckID int64) ([]int64, error)
}

// Common engine errors.
var (
	ErrEmptySessionID = errors.New("session id cannot be empty")
	ErrNilCardSource  = errors.New("card source cannot be nil")
	ErrNilStateStore  = errors.New("state store cannot be nil")
)

// Option configures an Engine.
type Option func(*Engine)

// WithShuffler replaces the default random source.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffler = s
		}
	}
}

// Engine drives per-session study queues.
type Engine struct {
	cards    CardSource
	states   StateStore
	shuffler Shuffler
	logger   *slog.Logger
	locks    *keyedMutex
}

// NewEngine creates an Engine backed by the given card source and state store.
func NewEngine(cards CardSource, states StateStore, log *slog.Logger, opts ...Option) (*Engine, error) {
	if cards == nil {
		return nil, ErrNilCardSource
	}
	if states == nil {
		return nil, ErrNilStateStore
	}
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		cards:    cards,
		states:   states,
		shuffler: defaultShuffler{},
		logger:   log.With(slog.String("component", "study_engine")),
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Initialize starts a pass over deckID using cardIDs and returns the stored
// sequence. If a queue already exists for the deck it is returned unchanged.
func (e *Engine) Initialize(ctx context.Context, sessionID string, deckID int64, cardIDs []int64) ([]int64, error) {
	var out []int64
	err := e.withQueue(ctx, sessionID, deckID, func(ctx context.Context, s StateStore, q *Queue) error {
		if q != nil {
			out = cloneIDs(q.Remaining)
			return nil
		}
		q = NewQueue(deckID, cardIDs, e.shuffler)
		if err := s.Save(ctx, sessionID, deckID, q.Remaining); err != nil {
			return err
		}
		out = cloneIDs(q.Remaining)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Draw returns the next card of the current pass and removes it from the
// queue, creating the queue from the deck's cards if none exists. ok is
// false when the pass is exhausted; the stored state is then left as is.
func (e *Engine) Draw(ctx context.Context, sessionID string, deckID int64) (cardID int64, ok bool, err error) {
	cardID, _, ok, err = e.DrawNext(ctx, sessionID, deckID)
	return cardID, ok, err
}

// DrawNext is Draw that also reports how many cards are left in the pass
// after the draw, read under the same queue lock.
func (e *Engine) DrawNext(
	ctx context.Context,
	sessionID string,
	deckID int64,
) (cardID int64, remaining int, ok bool, err error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	err = e.withQueue(ctx, sessionID, deckID, func(ctx context.Context, s StateStore, q *Queue) error {
		if q == nil {
			ids, err := e.cards.ListFlashcardIDs(ctx, deckID)
			if err != nil {
				return fmt.Errorf("failed to list flashcards for deck %d: %w", deckID, err)
			}
			q = NewQueue(deckID, ids, e.shuffler)
			log.Debug("initialized study queue",
				slog.Int64("deck_id", deckID),
				slog.Int("cards", q.Len()))
		} else if q.Exhausted() {
			return nil
		}

		cardID, ok = q.Draw()
		remaining = q.Len()
		return s.Save(ctx, sessionID, deckID, q.Remaining)
	})
	if err != nil {
		return 0, 0, false, err
	}
	return cardID, remaining, ok, nil
}

// Repeat schedules cardID to be shown again after every card still pending
// in the pass. It is a no-op when no queue exists for the deck or when the
// card is already pending; queued reports whether the card was added.
func (e *Engine) Repeat(ctx context.Context, sessionID string, deckID, cardID int64) (queued bool, err error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	err = e.withQueue(ctx, sessionID, deckID, func(ctx context.Context, s StateStore, q *Queue) error {
		if q == nil {
			log.Debug("repeat ignored, no study queue",
				slog.Int64("deck_id", deckID),
				slog.Int64("card_id", cardID))
			return nil
		}
		if !q.Repeat(cardID) {
			return nil
		}
		queued = true
		return s.Save(ctx, sessionID, deckID, q.Remaining)
	})
	if err != nil {
		return false, err
	}
	return queued, nil
}

// Reset discards the queue for the deck. The next Draw starts a new pass.
func (e *Engine) Reset(ctx context.Context, sessionID string, deckID int64) error {
	return e.withQueue(ctx, sessionID, deckID, func(ctx context.Context, s StateStore, q *Queue) error {
		if q == nil {
			return nil
		}
		return s.Delete(ctx, sessionID, deckID)
	})
}

// IsExhausted reports whether the deck has no card left to draw, either
// because no queue exists or because the current pass is used up.
func (e *Engine) IsExhausted(ctx context.Context, sessionID string, deckID int64) (bool, error) {
	q, err := e.peek(ctx, sessionID, deckID)
	if err != nil {
		return false, err
	}
	return q == nil || q.Exhausted(), nil
}

// Pending returns the number of cards left in the pass. exists is false
// when no queue has been created for the deck.
func (e *Engine) Pending(ctx context.Context, sessionID string, deckID int64) (n int, exists bool, err error) {
	q, err := e.peek(ctx, sessionID, deckID)
	if err != nil {
		return 0, false, err
	}
	if q == nil {
		return 0, false, nil
	}
	return q.Len(), true, nil
}

func (e *Engine) peek(ctx context.Context, sessionID string, deckID int64) (*Queue, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	return loadQueue(ctx, e.states, sessionID, deckID)
}

// withQueue runs fn with exclusive access to one deck's queue. q is nil when
// the queue is absent.
func (e *Engine) withQueue(
	ctx context.Context,
	sessionID string,
	deckID int64,
	fn func(ctx context.Context, s StateStore, q *Queue) error,
) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	unlock := e.locks.lock(queueKey{sessionID: sessionID, deckID: deckID})
	defer unlock()

	run := func(ctx context.Context, s StateStore) error {
		q, err := loadQueue(ctx, s, sessionID, deckID)
		if err != nil {
			return err
		}
		return fn(ctx, s, q)
	}

	if l, ok := e.states.(Locker); ok {
		return l.WithQueueLock(ctx, sessionID, deckID, run)
	}
	return run(ctx, e.states)
}

func loadQueue(ctx context.Context, s StateStore, sessionID string, deckID int64) (*Queue, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load study state: %w", err)
	}
	remaining, ok := state[deckID]
	if !ok {
		return nil, nil
	}
	return &Queue{DeckID: deckID, Remaining: cloneIDs(remaining)}, nil
}

func cloneIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

type queueKey struct {
	sessionID string
	deckID    int64
}

// keyedMutex hands out one mutex per queue key and forgets it once no
// goroutine holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[queueKey]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[queueKey]*keyedEntry)}
}

func (k *keyedMutex) lock(key queueKey) (unlock func()) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
