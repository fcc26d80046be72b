package store

import (
	"context"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain/study"
)

// StudyStateStore persists study queues per session and deck.
type StudyStateStore interface {
	study.StateStore

	// DeleteStale removes queues not written since before and returns how
	// many were removed.
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}
