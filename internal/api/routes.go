package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashdeck/internal/api/shared"
)

// Handlers groups the page handlers registered by RegisterRoutes.
type Handlers struct {
	Decks      *DeckHandler
	Flashcards *FlashcardHandler
	Study      *StudyHandler
}

// RegisterRoutes mounts every page route on r. Session middleware must be
// applied by the caller.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Get("/", h.Decks.ListDecks)
	r.Post("/", h.Decks.CreateDeck)
	r.Get("/new", h.Decks.NewDeckForm)

	r.Route("/{deck}", func(r chi.Router) {
		r.Get("/", h.Decks.GetDeck)
		r.Get("/edit", h.Decks.EditDeckForm)
		r.Post("/edit", h.Decks.RenameDeck)
		r.Post("/delete", h.Decks.DeleteDeck)

		r.Get("/flashcards", h.Flashcards.ListFlashcards)
		r.Get("/flashcards/search", h.Flashcards.SearchFlashcards)
		r.Post("/flashcards/search", h.Flashcards.SubmitSearch)
		r.Get("/flashcard", h.Flashcards.NewFlashcardForm)
		r.Post("/new", h.Flashcards.CreateFlashcard)
		r.Get("/{card}/edit", h.Flashcards.EditFlashcardForm)
		r.Post("/{card}/edit", h.Flashcards.UpdateFlashcard)
		r.Post("/{card}/delete", h.Flashcards.DeleteFlashcard)

		r.Get("/study", h.Study.ShowCard)
		r.Post("/study", h.Study.Submit)
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
