package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/redact"
	"github.com/phrazzld/flashdeck/internal/service/session"
)

// SessionMiddleware gives every visitor a session id carried in a signed
// cookie. A missing, invalid or expired cookie starts a new session.
type SessionMiddleware struct {
	tokens     session.TokenService
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewSessionMiddleware creates a SessionMiddleware using tokens to sign the
// cookie named cookieName.
func NewSessionMiddleware(tokens session.TokenService, cookieName string, secure bool) *SessionMiddleware {
	if tokens == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("token service cannot be nil for SessionMiddleware")
	}

	return &SessionMiddleware{
		tokens:     tokens,
		cookieName: cookieName,
		secure:     secure,
		now:        time.Now,
	}
}

// Handle resolves the session id and stores it in the request context.
// Tokens past half their lifetime are reissued for the same session.
func (m *SessionMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		var sessionID uuid.UUID
		reissue := true

		if c, err := r.Cookie(m.cookieName); err == nil {
			claims, err := m.tokens.Validate(ctx, c.Value)
			switch {
			case err == nil:
				sessionID = claims.SessionID
				reissue = claims.ExpiresAt.Sub(m.now()) < m.tokens.Lifetime()/2
			case errors.Is(err, session.ErrExpiredToken):
				log.Debug("session expired, starting a new one")
			default:
				log.Debug("discarding unusable session cookie", "error", redact.Error(err))
			}
		}

		if sessionID == uuid.Nil {
			sessionID = uuid.New()
		}

		if reissue {
			token, err := m.tokens.Issue(ctx, sessionID)
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Could not start a session", err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(m.tokens.Lifetime().Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx = shared.SetSessionID(ctx, sessionID.String())
		ctx = logger.WithLogger(ctx, log.With(slog.String("session_id", sessionID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session id from the request context.
func GetSessionID(r *http.Request) (string, bool) {
	return shared.GetSessionID(r.Context())
}
