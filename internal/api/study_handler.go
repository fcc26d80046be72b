package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
)

// errMissingSession is returned when the session middleware did not run.
var errMissingSession = errors.New("request has no session")

// StudyForm is submitted from the study page. With neither field set the
// pass is restarted only if it is exhausted.
type StudyForm struct {
	Repeat    string `form:"repeat"     validate:"omitempty,number,max=19"`
	StartOver bool   `form:"start_over"`
}

// StudyHandler serves the study page of a deck.
type StudyHandler struct {
	study    service.StudyService
	renderer *Renderer
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(study service.StudyService, renderer *Renderer, logger *slog.Logger) *StudyHandler {
	if study == nil || renderer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("study service and renderer cannot be nil for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyHandler{
		study:    study,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "study_handler")),
	}
}

// ShowCard handles GET /{deck}/study. Every visit draws the next card.
func (h *StudyHandler) ShowCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := shared.GetSessionID(r.Context())
	if !ok {
		respondWithError(w, r, errMissingSession)
		return
	}
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	next, err := h.study.NextCard(r.Context(), sessionID, deckID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	data := &viewData{
		Deck:      next.Deck,
		Card:      next.Card,
		Remaining: next.Remaining,
		Exhausted: next.Exhausted(),
	}
	if !data.Exhausted {
		log.Debug("showing study card",
			slog.Int64("deck_id", deckID),
			slog.Int64("flashcard_id", next.Card.ID),
			slog.Int("remaining", next.Remaining))
	}

	h.renderer.Render(w, r, http.StatusOK, pageStudy, data)
}

// Submit handles POST /{deck}/study and redirects back to the study page.
func (h *StudyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := shared.GetSessionID(r.Context())
	if !ok {
		respondWithError(w, r, errMissingSession)
		return
	}
	deckID, err := getDeckID(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var form StudyForm
	if err := shared.DecodeForm(r, &form); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	switch {
	case form.Repeat != "":
		cardID, convErr := strconv.ParseInt(form.Repeat, 10, 64)
		if convErr != nil || cardID <= 0 {
			respondWithError(w, r, fmt.Errorf("%w: repeat %q", store.ErrFlashcardNotFound, form.Repeat))
			return
		}
		err = h.study.Repeat(r.Context(), sessionID, deckID, cardID)
	case form.StartOver:
		err = h.study.StartOver(r.Context(), sessionID, deckID)
	default:
		err = h.study.Continue(r.Context(), sessionID, deckID)
	}
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/%d/study", deckID), http.StatusSeeOther)
}
