// Package main imports flashcards from a spreadsheet (.xlsx or .csv) into
// a deck, creating the deck when it does not exist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/importer"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/phrazzld/flashdeck/internal/service"
)

type options struct {
	deckName string
	cfg      importer.Config
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	deck := fs.String("deck", "", "name of the deck to import into (required)")
	sheet := fs.String("sheet", "", "workbook sheet to read; defaults to the active sheet")
	header := fs.Bool("header", false, "skip the first row")
	front := fs.String("front", "A", "column holding the front of each card")
	back := fs.String("back", "B", "column holding the back of each card")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *deck == "" {
		return options{}, errors.New("-deck is required")
	}
	if fs.NArg() != 1 {
		return options{}, errors.New("expected exactly one file to import")
	}

	cfg := importer.DefaultConfig(fs.Arg(0))
	cfg.SheetName = *sheet
	cfg.SkipHeader = *header
	cfg.FrontColumn = *front
	cfg.BackColumn = *back

	return options{deckName: *deck, cfg: cfg}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if err := run(context.Background(), cfg, l, opts, os.Stdout); err != nil {
		l.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, l *slog.Logger, opts options, out io.Writer) error {
	db, err := postgres.OpenDB(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}()

	deckStore := postgres.NewPostgresDeckStore(db, l)
	cardStore := postgres.NewPostgresFlashcardStore(db, l)

	decks, err := service.NewDeckService(deckStore, l)
	if err != nil {
		return fmt.Errorf("failed to create deck service: %w", err)
	}
	cards, err := service.NewFlashcardService(db, deckStore, cardStore, l)
	if err != nil {
		return fmt.Errorf("failed to create flashcard service: %w", err)
	}

	result, err := importer.New(decks, cards, l).Import(ctx, opts.deckName, opts.cfg)
	if err != nil {
		return err
	}

	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result *importer.Result) {
	verb := "Using existing"
	if result.DeckCreated {
		verb = "Created"
	}
	fmt.Fprintf(out, "%s deck %q\n", verb, result.Deck.Name)
	fmt.Fprintf(out, "Rows processed: %d\n", result.TotalProcessed)
	fmt.Fprintf(out, "Flashcards created: %d\n", result.Created)
	fmt.Fprintf(out, "Rows skipped: %d\n", result.Skipped)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  %s\n", msg)
	}
}
