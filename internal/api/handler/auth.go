// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"customer-portal/internal/api/types"
	"customer-portal/internal/service"
	"customer-portal/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service  service.AuthService
	sessions *session.Manager
	cookies  *session.CookieCodec
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, sessions *session.Manager, cookies *session.CookieCodec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  svc,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
	}
}

// Register handles customer registration.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		FullName:      req.FullName,
		IDNumber:      req.IDNumber,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	RespondWithJSON(w, h.logger, http.StatusCreated, types.RegisterResponse{
		Message:  "Registered",
		UserID:   user.ID,
		FullName: user.FullName,
	})
}

// Login authenticates the account and issues a fresh session cookie.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.AccountNumber, req.Password)
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	// A forged or stale cookie simply has nothing to destroy.
	previousID, _ := h.cookies.Read(r)
	sess, err := h.sessions.Issue(r.Context(), previousID, user, session.ClientIP(r), r.UserAgent())
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}
	cookie, err := h.cookies.Cookie(sess.ID)
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}
	http.SetCookie(w, cookie)

	RespondWithJSON(w, h.logger, http.StatusOK, types.LoginResponse{
		Message: "Login successful",
		Profile: user.Profile(),
	})
}

// Logout destroys the caller's session, if any, and clears the cookie.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := h.cookies.Read(r)
	if err == nil && id != "" {
		if err := h.sessions.Destroy(r.Context(), id); err != nil {
			h.logger.Error("Logout failed", "error", err)
			RespondWithJSON(w, h.logger, http.StatusInternalServerError, types.ErrorResponse{Message: "Logout failed"})
			return
		}
	}
	http.SetCookie(w, h.cookies.Clear())
	RespondWithJSON(w, h.logger, http.StatusOK, types.MessageResponse{Message: "Logout successful"})
}
