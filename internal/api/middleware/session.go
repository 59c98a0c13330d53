// internal/api/middleware/session.go
package middleware

import (
	"log/slog"
	"net/http"

	"customer-portal/internal/api/handler"
	"customer-portal/internal/domain"
	"customer-portal/internal/session"
	"customer-portal/internal/util"
)

// SessionAuth guards routes with a validated session.
type SessionAuth struct {
	sessions *session.Manager
	cookies  *session.CookieCodec
	logger   *slog.Logger
}

// NewSessionAuth creates a new SessionAuth.
func NewSessionAuth(sessions *session.Manager, cookies *session.CookieCodec, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{sessions: sessions, cookies: cookies, logger: logger}
}

// RequireSession validates the session cookie and stores the session in the
// request context. An invalid session is destroyed and its cookie cleared.
func (m *SessionAuth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.cookies.Read(r)
		if err != nil {
			m.reject(w, err)
			return
		}

		s, err := m.sessions.Validate(r.Context(), id, session.ClientIP(r), r.UserAgent())
		if err != nil {
			if util.IsError(err, util.ErrSessionInvalid) {
				m.reject(w, err)
				return
			}
			handler.RespondWithError(w, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

func (m *SessionAuth) reject(w http.ResponseWriter, err error) {
	m.logger.Debug("Session rejected", "error", err)
	http.SetCookie(w, m.cookies.Clear())
	handler.RespondWithError(w, m.logger, util.ErrSessionInvalid)
}

// RequireRole allows the request through only when the session role is one of roles.
// It must run after RequireSession.
func RequireRole(logger *slog.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				handler.RespondWithError(w, logger, util.ErrSessionInvalid)
				return
			}
			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handler.RespondWithError(w, logger, util.ErrNotAuthorized)
		})
	}
}
