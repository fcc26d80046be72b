package api

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrCardNotInDeck):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that does not
// expose internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrFlashcardNotFound),
		errors.Is(err, service.ErrCardNotInDeck):
		return "Flashcard not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrDeckNameTaken):
		return "You already have a deck with that name"

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// isFormError reports whether err is a user input problem that should be
// shown on the submitted form rather than on an error page.
func isFormError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, store.ErrDeckNameTaken)
}

// validationMessage renders the violated rule of a domain validation error
// as a sentence.
func validationMessage(err error) string {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Err == nil {
		return "Validation error"
	}

	msg := verr.Err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return "Validation error"
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
