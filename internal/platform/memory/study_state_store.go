package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain/study"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

type queueRecord struct {
	remaining []int64
	updatedAt time.Time
}

// StudyStateStore implements store.StudyStateStore with a mutex-guarded map.
type StudyStateStore struct {
	mu       sync.RWMutex
	sessions map[string]map[int64]*queueRecord
	now      func() time.Time
	logger   *slog.Logger
}

// NewStudyStateStore creates an empty store. If logger is nil, the default
// logger is used.
func NewStudyStateStore(logger *slog.Logger) *StudyStateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyStateStore{
		sessions: make(map[string]map[int64]*queueRecord),
		now:      time.Now,
		logger:   logger.With(slog.String("component", "memory_study_state_store")),
	}
}

var _ store.StudyStateStore = (*StudyStateStore)(nil)

// Load implements study.StateStore.Load. The returned slices are copies.
func (s *StudyStateStore) Load(_ context.Context, sessionID string) (study.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := study.State{}
	for deckID, rec := range s.sessions[sessionID] {
		state[deckID] = append([]int64{}, rec.remaining...)
	}
	return state, nil
}

// Save implements study.StateStore.Save.
func (s *StudyStateStore) Save(_ context.Context, sessionID string, deckID int64, remaining []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queues, ok := s.sessions[sessionID]
	if !ok {
		queues = make(map[int64]*queueRecord)
		s.sessions[sessionID] = queues
	}
	queues[deckID] = &queueRecord{
		remaining: append([]int64{}, remaining...),
		updatedAt: s.now(),
	}
	return nil
}

// Delete implements study.StateStore.Delete.
func (s *StudyStateStore) Delete(_ context.Context, sessionID string, deckID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queues := s.sessions[sessionID]
	delete(queues, deckID)
	if len(queues) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// DeleteStale implements store.StudyStateStore.DeleteStale.
func (s *StudyStateStore) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for sessionID, queues := range s.sessions {
		for deckID, rec := range queues {
			if rec.updatedAt.Before(before) {
				delete(queues, deckID)
				removed++
			}
		}
		if len(queues) == 0 {
			delete(s.sessions, sessionID)
		}
	}

	if removed > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("removed stale study queues",
			slog.Int64("count", removed))
	}
	return removed, nil
}
