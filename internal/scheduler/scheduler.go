// Package scheduler runs background jobs. Its only job removes study
// queues that have not been touched within the session lifetime.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/flashdeck/internal/redact"
)

// StaleQueueRemover deletes study queues last updated before a cutoff.
type StaleQueueRemover interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically removes stale study queues.
type Sweeper struct {
	scheduler *gocron.Scheduler
	queues    StaleQueueRemover
	interval  time.Duration
	lifetime  time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewSweeper creates a Sweeper that runs every interval and removes
// queues idle for longer than lifetime.
func NewSweeper(
	queues StaleQueueRemover,
	interval, lifetime time.Duration,
	logger *slog.Logger,
) (*Sweeper, error) {
	if queues == nil {
		return nil, fmt.Errorf("stale queue remover cannot be nil")
	}
	if interval <= 0 || lifetime <= 0 {
		return nil, fmt.Errorf("sweep interval and session lifetime must be positive, got %s and %s",
			interval, lifetime)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Sweeper{
		scheduler: s,
		queues:    queues,
		interval:  interval,
		lifetime:  lifetime,
		timeout:   time.Minute,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "sweeper")),
	}, nil
}

// Start schedules the sweep and runs the scheduler in the background. The
// first sweep happens one interval after Start.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.runOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("sweeper started",
		slog.Duration("interval", s.interval),
		slog.Duration("lifetime", s.lifetime))
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
	s.logger.Info("sweeper stopped")
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("sweep failed", slog.String("error", redact.Error(err)))
	}
}

// Sweep removes queues idle for longer than the session lifetime and
// returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.lifetime)

	removed, err := s.queues.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale study queues: %w", err)
	}

	if removed > 0 {
		s.logger.Info("removed stale study queues",
			slog.Int64("count", removed),
			slog.Time("cutoff", cutoff))
	} else {
		s.logger.Debug("no stale study queues", slog.Time("cutoff", cutoff))
	}
	return removed, nil
}
