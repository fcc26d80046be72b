package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/flashdeck/internal/domain/study"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresStudyStateStore implements store.StudyStateStore on the
// study_queues table.
type PostgresStudyStateStore struct {
	db     store.DBTX
	types  *pgtype.Map
	logger *slog.Logger
}

// NewPostgresStudyStateStore creates a study state store on db. If db is a
// *sql.DB, WithQueueLock runs in its own transaction.
func NewPostgresStudyStateStore(db store.DBTX, logger *slog.Logger) *PostgresStudyStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudyStateStore{
		db:     db,
		types:  pgtype.NewMap(),
		logger: logger.With(slog.String("component", "study_state_store")),
	}
}

var (
	_ store.StudyStateStore = (*PostgresStudyStateStore)(nil)
	_ study.Locker          = (*PostgresStudyStateStore)(nil)
)

// WithTx returns a store bound to tx.
func (s *PostgresStudyStateStore) WithTx(tx *sql.Tx) *PostgresStudyStateStore {
	return &PostgresStudyStateStore{db: tx, types: s.types, logger: s.logger}
}

// Load implements study.StateStore.Load.
func (s *PostgresStudyStateStore) Load(ctx context.Context, sessionID string) (study.State, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sid, err := parseSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT deck_id, remaining FROM study_queues WHERE session_id = $1`, sid)
	if err != nil {
		log.Error("failed to load study state", slog.String("error", err.Error()))
		return nil, store.NewStoreError("study queue", "load", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	state := study.State{}
	for rows.Next() {
		var (
			deckID    int64
			remaining []int64
		)
		if err := rows.Scan(&deckID, s.types.SQLScanner(&remaining)); err != nil {
			return nil, store.NewStoreError("study queue", "load", "scan failed", err)
		}
		if remaining == nil {
			remaining = []int64{}
		}
		state[deckID] = remaining
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("study queue", "load", "row iteration failed", err)
	}
	return state, nil
}

// Save implements study.StateStore.Save.
func (s *PostgresStudyStateStore) Save(ctx context.Context, sessionID string, deckID int64, remaining []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sid, err := parseSessionID(sessionID)
	if err != nil {
		return err
	}
	if remaining == nil {
		remaining = []int64{}
	}

	// The deck check keeps a missing deck from aborting the surrounding
	// transaction with a foreign key violation.
	query := `
		INSERT INTO study_queues (session_id, deck_id, remaining, updated_at)
		SELECT $1::uuid, $2::bigint, $3::bigint[], NOW()
		WHERE EXISTS (SELECT 1 FROM decks WHERE id = $2::bigint)
		ON CONFLICT (session_id, deck_id)
		DO UPDATE SET remaining = EXCLUDED.remaining, updated_at = EXCLUDED.updated_at
	`
	result, err := s.db.ExecContext(ctx, query, sid, deckID, remaining)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return missingDeckSave(remaining)
		}
		log.Error("failed to save study queue",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return store.NewStoreError("study queue", "save", "upsert failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return missingDeckSave(remaining)
	}
	return nil
}

// missingDeckSave is the outcome of saving a queue for a deck that does not
// exist. An unknown deck has no cards, so its empty queue is accepted
// without storing anything.
func missingDeckSave(remaining []int64) error {
	if len(remaining) == 0 {
		return nil
	}
	return store.ErrDeckNotFound
}

// Delete implements study.StateStore.Delete.
func (s *PostgresStudyStateStore) Delete(ctx context.Context, sessionID string, deckID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sid, err := parseSessionID(sessionID)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM study_queues WHERE session_id = $1 AND deck_id = $2`, sid, deckID)
	if err != nil {
		log.Error("failed to delete study queue",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return store.NewStoreError("study queue", "delete", "delete failed", MapError(err))
	}
	return nil
}

// DeleteStale implements store.StudyStateStore.DeleteStale.
func (s *PostgresStudyStateStore) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM study_queues WHERE updated_at < $1`, before)
	if err != nil {
		return 0, store.NewStoreError("study queue", "sweep", "delete failed", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// WithQueueLock implements study.Locker with a transaction-scoped advisory
// lock keyed on the session and deck.
func (s *PostgresStudyStateStore) WithQueueLock(
	ctx context.Context,
	sessionID string,
	deckID int64,
	fn func(ctx context.Context, st study.StateStore) error,
) error {
	sid, err := parseSessionID(sessionID)
	if err != nil {
		return err
	}

	lock := func(ctx context.Context, db store.DBTX) error {
		_, err := db.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text, $2))`, sid.String(), deckID)
		if err != nil {
			return store.NewStoreError("study queue", "lock", "advisory lock failed", MapError(err))
		}
		return nil
	}

	db, ok := s.db.(*sql.DB)
	if !ok {
		// Already inside a transaction.
		if err := lock(ctx, s.db); err != nil {
			return err
		}
		return fn(ctx, s)
	}

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if err := lock(ctx, tx); err != nil {
			return err
		}
		return fn(ctx, s.WithTx(tx))
	})
}

func parseSessionID(sessionID string) (uuid.UUID, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed session id", store.ErrInvalidEntity)
	}
	return sid, nil
}
