package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashdeck/internal/api"
	apiMiddleware "github.com/phrazzld/flashdeck/internal/api/middleware"
)

// setupRouter creates the router with the standard middleware, the health
// check and every page route behind the session middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	r.Get("/health", api.Health)

	sessions := apiMiddleware.NewSessionMiddleware(
		app.tokens,
		app.config.Session.CookieName,
		app.config.Session.SecureCookie,
	)

	handlers := api.Handlers{
		Decks:      api.NewDeckHandler(app.decks, app.renderer, app.logger),
		Flashcards: api.NewFlashcardHandler(app.decks, app.cards, app.renderer, app.logger),
		Study:      api.NewStudyHandler(app.study, app.renderer, app.logger),
	}

	r.Group(func(r chi.Router) {
		r.Use(sessions.Handle)
		api.RegisterRoutes(r, handlers)
	})

	return r
}
