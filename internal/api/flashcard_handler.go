package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/service"
)

// FlashcardForm is submitted when creating or editing a flashcard.
type FlashcardForm struct {
	Front string `form:"front" validate:"max=4000"`
	Back  string `form:"back"  validate:"max=4000"`
}

// SearchForm carries a search term from the form or the query string.
type SearchForm struct {
	Term string `form:"term" validate:"max=1000"`
}

// FlashcardHandler handles flashcard listing, search and editing pages.
type FlashcardHandler struct {
	decks    service.DeckService
	cards    service.FlashcardService
	renderer *Renderer
	logger   *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(
	decks service.DeckService,
	cards service.FlashcardService,
	renderer *Renderer,
	logger *slog.Logger,
) *FlashcardHandler {
	if decks == nil || cards == nil || renderer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("services and renderer cannot be nil for FlashcardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardHandler{
		decks:    decks,
		cards:    cards,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "flashcard_handler")),
	}
}

// loadDeck resolves the {deck} path parameter, writing the error page on failure.
func (h *FlashcardHandler) loadDeck(w http.ResponseWriter, r *http.Request) (*domain.Deck, bool) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}

	deck, err := h.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}
	return deck, true
}

// ListFlashcards handles GET /{deck}/flashcards
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	h.renderList(w, r, http.StatusOK, deck, &viewData{})
}

func (h *FlashcardHandler) renderList(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	deck *domain.Deck,
	data *viewData,
) {
	cards, err := h.cards.ListFlashcards(r.Context(), deck.ID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	data.Deck = deck
	data.Cards = cards
	h.renderer.Render(w, r, status, pageFlashcards, data)
}

// SubmitSearch handles POST /{deck}/flashcards/search
func (h *FlashcardHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	var form SearchForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, deck, &viewData{
			Flash: SanitizeValidationError(err),
			Term:  form.Term,
		})
		return
	}

	term, err := domain.NormalizeSearchTerm(form.Term)
	if err != nil {
		h.renderList(w, r, MapErrorToStatusCode(err), deck, &viewData{
			Flash: GetSafeErrorMessage(err),
			Term:  form.Term,
		})
		return
	}

	target := fmt.Sprintf("/%d/flashcards/search?%s", deck.ID, url.Values{"term": {term}}.Encode())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SearchFlashcards handles GET /{deck}/flashcards/search?term=
func (h *FlashcardHandler) SearchFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	var form SearchForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, deck, &viewData{
			Flash: SanitizeValidationError(err),
		})
		return
	}

	cards, term, err := h.cards.SearchFlashcards(r.Context(), deck.ID, form.Term)
	if err != nil {
		if isFormError(err) {
			h.renderList(w, r, MapErrorToStatusCode(err), deck, &viewData{
				Flash: GetSafeErrorMessage(err),
				Term:  form.Term,
			})
			return
		}
		respondWithError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageSearch, &viewData{
		Deck:  deck,
		Cards: cards,
		Term:  term,
	})
}

// NewFlashcardForm handles GET /{deck}/flashcard
func (h *FlashcardHandler) NewFlashcardForm(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageNewFlashcard, &viewData{Deck: deck})
}

// CreateFlashcard handles POST /{deck}/new
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deck, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	var form FlashcardForm
	err := shared.DecodeForm(r, &form)
	if err == nil {
		var card *domain.Flashcard
		card, err = h.cards.CreateFlashcard(r.Context(), deck.ID, form.Front, form.Back)
		if err == nil {
			log.Debug("flashcard created via form",
				slog.Int64("deck_id", deck.ID),
				slog.Int64("flashcard_id", card.ID))
			redirectWithFlash(w, r, fmt.Sprintf("/%d", deck.ID), "Flashcard created")
			return
		}
		if !isFormError(err) {
			respondWithError(w, r, err)
			return
		}
	}

	h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageNewFlashcard, &viewData{
		Deck:      deck,
		Flash:     formFailureMessage(err),
		FormFront: form.Front,
		FormBack:  form.Back,
	})
}

// EditFlashcardForm handles GET /{deck}/{card}/edit
func (h *FlashcardHandler) EditFlashcardForm(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageEditFlashcard, &viewData{
		Card:      card,
		FormFront: card.Front,
		FormBack:  card.Back,
	})
}

// UpdateFlashcard handles POST /{deck}/{card}/edit
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.loadCard(w, r)
	if !ok {
		return
	}

	var form FlashcardForm
	err := shared.DecodeForm(r, &form)
	if err == nil {
		if _, err = h.cards.UpdateFlashcard(r.Context(), card.DeckID, card.ID, form.Front, form.Back); err == nil {
			redirectWithFlash(w, r, fmt.Sprintf("/%d/flashcards", card.DeckID), "Flashcard updated")
			return
		}
		if !isFormError(err) {
			respondWithError(w, r, err)
			return
		}
	}

	h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageEditFlashcard, &viewData{
		Card:      card,
		Flash:     formFailureMessage(err),
		FormFront: form.Front,
		FormBack:  form.Back,
	})
}

// DeleteFlashcard handles POST /{deck}/{card}/delete
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	cardID, err := getCardID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.cards.DeleteFlashcard(r.Context(), deckID, cardID); err != nil {
		respondWithError(w, r, err)
		return
	}

	redirectWithFlash(w, r, fmt.Sprintf("/%d", deckID), "Flashcard deleted")
}

// loadCard resolves the {deck} and {card} path parameters to a flashcard
// of that deck, writing the error page on failure.
func (h *FlashcardHandler) loadCard(w http.ResponseWriter, r *http.Request) (*domain.Flashcard, bool) {
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}
	cardID, err := getCardID(r)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}

	card, err := h.cards.GetFlashcard(r.Context(), deckID, cardID)
	if err != nil {
		respondWithError(w, r, err)
		return nil, false
	}
	return card, true
}

// formFailureMessage returns the message shown above a rejected form,
// whether it failed decoding or domain validation.
func formFailureMessage(err error) string {
	if isFormError(err) {
		return GetSafeErrorMessage(err)
	}
	return SanitizeValidationError(err)
}
