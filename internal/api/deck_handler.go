package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/service"
)

// DeckForm is submitted when creating or renaming a deck. Name rules are
// checked by the deck service.
type DeckForm struct {
	Name string `form:"deck_name" validate:"max=1000"`
}

// DeckHandler handles deck pages.
type DeckHandler struct {
	decks    service.DeckService
	renderer *Renderer
	logger   *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks service.DeckService, renderer *Renderer, logger *slog.Logger) *DeckHandler {
	if decks == nil || renderer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deck service and renderer cannot be nil for DeckHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckHandler{
		decks:    decks,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.ListDecks(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageDecks, &viewData{Title: "Decks", Decks: decks})
}

// NewDeckForm handles GET /new
func (h *DeckHandler) NewDeckForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageNewDeck, &viewData{Title: "New deck"})
}

// CreateDeck handles POST /
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var form DeckForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageNewDeck, &viewData{
			Flash:    SanitizeValidationError(err),
			FormName: form.Name,
		})
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), form.Name)
	if err != nil {
		if isFormError(err) {
			h.renderer.Render(w, r, MapErrorToStatusCode(err), pageNewDeck, &viewData{
				Flash:    GetSafeErrorMessage(err),
				FormName: form.Name,
			})
			return
		}
		respondWithError(w, r, err)
		return
	}

	log.Debug("deck created via form", slog.Int64("deck_id", deck.ID))
	redirectWithFlash(w, r, "/", "Deck has been created")
}

// GetDeck handles GET /{deck}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageDeck, &viewData{Deck: deck})
}

// EditDeckForm handles GET /{deck}/edit
func (h *DeckHandler) EditDeckForm(w http.ResponseWriter, r *http.Request) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageEditDeck, &viewData{Deck: deck})
}

// RenameDeck handles POST /{deck}/edit
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var form DeckForm
	decodeErr := shared.DecodeForm(r, &form)
	if decodeErr == nil {
		if _, err = h.decks.RenameDeck(r.Context(), deckID, form.Name); err == nil {
			redirectWithFlash(w, r, "/", "Deck has been updated")
			return
		}
		if !isFormError(err) {
			respondWithError(w, r, err)
			return
		}
	}

	// Re-render the form with the current deck and the rejected name.
	deck, getErr := h.decks.GetDeck(r.Context(), deckID)
	if getErr != nil {
		respondWithError(w, r, getErr)
		return
	}

	data := &viewData{Deck: deck, FormName: form.Name}
	status := http.StatusUnprocessableEntity
	if decodeErr != nil {
		data.Flash = SanitizeValidationError(decodeErr)
	} else {
		data.Flash = GetSafeErrorMessage(err)
		status = MapErrorToStatusCode(err)
	}
	h.renderer.Render(w, r, status, pageEditDeck, data)
}

// DeleteDeck handles POST /{deck}/delete
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), deckID); err != nil {
		respondWithError(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/", "Deck has been deleted")
}
