// Package api serves the server-rendered flashcard pages. Handlers decode
// forms, call the application services and render the embedded
// html/template views; service errors are mapped to status codes and safe
// messages in errors.go. Routes are registered with RegisterRoutes.
package api
