package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/service"
)

// Import errors
var (
	ErrUnsupportedFile = errors.New("unsupported import file type")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrNoRows          = errors.New("no flashcards found in file")
)

// Config defines what to read from the import file.
type Config struct {
	FilePath    string // Path to the .xlsx or .csv file
	SheetName   string // Workbook sheet; empty means the active sheet
	SkipHeader  bool   // Skip the first row
	FrontColumn string // Column holding the front, e.g. "A"
	BackColumn  string // Column holding the back, e.g. "B"
}

// DefaultConfig reads column A as the front and column B as the back of
// the active sheet, including the first row.
func DefaultConfig(path string) Config {
	return Config{
		FilePath:    path,
		FrontColumn: "A",
		BackColumn:  "B",
	}
}

// Result summarises an import.
type Result struct {
	Deck           *domain.Deck
	DeckCreated    bool
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer creates flashcards from spreadsheet rows.
type Importer struct {
	decks  service.DeckService
	cards  service.FlashcardService
	logger *slog.Logger
}

// New creates an Importer.
func New(decks service.DeckService, cards service.FlashcardService, logger *slog.Logger) *Importer {
	if decks == nil || cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deck and flashcard services cannot be nil for Importer")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		decks:  decks,
		cards:  cards,
		logger: logger.With(slog.String("component", "importer")),
	}
}

// Import adds the rows of cfg.FilePath to the deck named deckName,
// creating the deck if needed. Invalid rows are skipped and reported in
// Result.Errors; the valid ones are stored in a single transaction.
func (im *Importer) Import(ctx context.Context, deckName string, cfg Config) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, im.logger)

	rows, err := ReadRows(cfg)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	result := &Result{Errors: []string{}}
	inputs := make([]service.FlashcardInput, 0, len(rows))
	for _, row := range rows {
		result.TotalProcessed++
		if err := im.cards.CheckFlashcard(row.Front, row.Back); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Number, describe(err)))
			continue
		}
		inputs = append(inputs, service.FlashcardInput{Front: row.Front, Back: row.Back})
	}

	result.Deck, result.DeckCreated, err = im.findOrCreateDeck(ctx, deckName)
	if err != nil {
		return nil, err
	}

	created, err := im.cards.CreateFlashcards(ctx, result.Deck.ID, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to store flashcards: %w", err)
	}
	result.Created = len(created)

	log.Info("flashcards imported",
		slog.Int64("deck_id", result.Deck.ID),
		slog.Bool("deck_created", result.DeckCreated),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

func (im *Importer) findOrCreateDeck(ctx context.Context, name string) (*domain.Deck, bool, error) {
	name = strings.TrimSpace(name)

	decks, err := im.decks.ListDecks(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list decks: %w", err)
	}
	for _, d := range decks {
		if d.Name == name {
			return d, false, nil
		}
	}

	deck, err := im.decks.CreateDeck(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create deck %q: %w", name, err)
	}
	return deck, true, nil
}

// describe returns the violated rule of a validation error.
func describe(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Err != nil {
		return fmt.Sprintf("%s: %v", verr.Field, verr.Err)
	}
	return err.Error()
}
