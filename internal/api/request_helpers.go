package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/store"
)

// getPathID extracts a positive integer id from the URL path parameter
// paramName. Anything else is reported as notFound, since no such page exists.
func getPathID(r *http.Request, paramName string, notFound error) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed %s %q", notFound, paramName, raw)
	}
	return id, nil
}

func getDeckID(r *http.Request) (int64, error) {
	return getPathID(r, "deck", store.ErrDeckNotFound)
}

func getCardID(r *http.Request) (int64, error) {
	return getPathID(r, "card", store.ErrFlashcardNotFound)
}

// redirectWithFlash stores message for the next page and redirects with
// 303 See Other so the browser follows up with a GET.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		shared.SetFlash(w, r, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondWithError renders the error page for err using its mapped status
// and safe message.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns a form validation failure into a short
// user-facing message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "too long"
	case "number", "numeric":
		return "must be a number"
	default:
		return "validation failed"
	}
}
