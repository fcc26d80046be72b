package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/api"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/domain/study"
	"github.com/phrazzld/flashdeck/internal/platform/memory"
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/phrazzld/flashdeck/internal/scheduler"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/service/session"
	"github.com/phrazzld/flashdeck/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	states   store.StudyStateStore
	decks    service.DeckService
	cards    service.FlashcardService
	study    service.StudyService
	tokens   session.TokenService
	renderer *api.Renderer
	sweeper  *scheduler.Sweeper
}

// newStudyStateStore picks the study queue backend named by the session
// configuration.
func newStudyStateStore(cfg config.SessionConfig, db *sql.DB, l *slog.Logger) (store.StudyStateStore, error) {
	switch cfg.Store {
	case config.SessionStoreMemory:
		return memory.NewStudyStateStore(l), nil
	case config.SessionStorePostgres:
		return postgres.NewPostgresStudyStateStore(db, l), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// newApplication wires stores, services and handlers around db.
func newApplication(cfg *config.Config, l *slog.Logger, db *sql.DB) (*application, error) {
	deckStore := postgres.NewPostgresDeckStore(db, l)
	cardStore := postgres.NewPostgresFlashcardStore(db, l)

	states, err := newStudyStateStore(cfg.Session, db, l)
	if err != nil {
		return nil, err
	}

	engine, err := study.NewEngine(cardStore, states, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create study engine: %w", err)
	}

	decks, err := service.NewDeckService(deckStore, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}
	cards, err := service.NewFlashcardService(db, deckStore, cardStore, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}
	studySvc, err := service.NewStudyService(deckStore, cardStore, engine, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	tokens, err := session.NewTokenService(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token service: %w", err)
	}

	renderer, err := api.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	sweeper, err := scheduler.NewSweeper(states, cfg.Session.SweepInterval(), cfg.Session.Lifetime(), l)
	if err != nil {
		return nil, fmt.Errorf("failed to create study queue sweeper: %w", err)
	}

	return &application{
		config:   cfg,
		logger:   l,
		db:       db,
		states:   states,
		decks:    decks,
		cards:    cards,
		study:    studySvc,
		tokens:   tokens,
		renderer: renderer,
		sweeper:  sweeper,
	}, nil
}

// Run starts the background sweeper and serves HTTP until ctx is canceled
// or the process receives SIGINT/SIGTERM.
func (app *application) Run(ctx context.Context) error {
	if err := app.sweeper.Start(); err != nil {
		app.cleanup()
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup stops background work and closes the database.
func (app *application) cleanup() {
	app.logger.Info("Cleaning up application resources")

	app.sweeper.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
