package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file besides the layout.
const (
	pageDecks           = "decks"
	pageNewDeck         = "new_deck"
	pageDeck            = "deck"
	pageEditDeck        = "edit_deck"
	pageFlashcards      = "flashcards"
	pageSearch          = "search_flashcards"
	pageNewFlashcard    = "new_flashcard"
	pageEditFlashcard   = "edit_flashcard"
	pageStudy           = "study"
	layoutTemplate      = "layout"
	layoutTemplateFile  = "templates/layout.html"
	pageTemplatePattern = "templates/%s.html"
)

var pageNames = []string{
	pageDecks, pageNewDeck, pageDeck, pageEditDeck,
	pageFlashcards, pageSearch, pageNewFlashcard, pageEditFlashcard,
	pageStudy,
}

// viewData is the data passed to every page template.
type viewData struct {
	Title   string
	Flash   string
	TraceID string

	Deck  *domain.Deck
	Decks []*domain.Deck
	Card  *domain.Flashcard
	Cards []*domain.Flashcard
	Term  string

	// Values echoed back into a form that failed validation.
	FormName  string
	FormFront string
	FormBack  string

	Remaining int
	Exhausted bool
}

var templateFuncs = template.FuncMap{
	// Card text is sanitized before it is stored.
	"cardText": func(s string) template.HTML { return template.HTML(s) },
}

// Renderer executes the page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout template: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		page, err := base.ParseFS(templateFS, fmt.Sprintf(pageTemplatePattern, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{pages: pages}, nil
}

// Render writes page with status. A flash message stored by the previous
// request is shown unless data already carries one.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data *viewData) {
	log := logger.FromContext(r.Context())

	tmpl, ok := rd.pages[page]
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"An unexpected error occurred", fmt.Errorf("unknown page %q", page))
		return
	}

	if data == nil {
		data = &viewData{}
	}
	if flash := shared.PopFlash(w, r); data.Flash == "" {
		data.Flash = flash
	}
	data.TraceID = shared.GetTraceID(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"An unexpected error occurred", fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write page", slog.String("page", page), slog.String("error", err.Error()))
	}
}
