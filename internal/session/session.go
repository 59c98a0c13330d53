// internal/session/session.go
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customer-portal/internal/domain"
	"customer-portal/internal/util"
	"customer-portal/pkg/validation"
)

// DefaultMaxAge is the absolute session lifetime measured from login.
const DefaultMaxAge = 30 * time.Minute

// Session is the server-side record behind an authenticated cookie.
type Session struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Role          domain.Role `json:"role"`
	AccountNumber string      `json:"accountNumber"`
	LoginTime     time.Time   `json:"loginTime"`
	IP            string      `json:"ip"`
	UserAgent     string      `json:"userAgent"`
	LastActivity  time.Time   `json:"lastActivity"`
}

// Store persists sessions. Get returns util.ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Touch sets the last activity of an existing session. It returns
	// util.ErrNotFound when the session is gone and never recreates it.
	Touch(ctx context.Context, id string, at time.Time) error
}

// Options tunes a Manager. Zero values select the defaults.
type Options struct {
	MaxAge time.Duration
	Now    func() time.Time
	NewID  func() (string, error)
}

// Manager issues, validates and destroys sessions.
type Manager struct {
	store  Store
	logger *slog.Logger
	maxAge time.Duration
	now    func() time.Time
	newID  func() (string, error)
}

// NewManager creates a Manager over store.
func NewManager(store Store, logger *slog.Logger, opts Options) *Manager {
	m := &Manager{
		store:  store,
		logger: logger,
		maxAge: opts.MaxAge,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if m.maxAge <= 0 {
		m.maxAge = DefaultMaxAge
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = NewID
	}
	return m
}

// MaxAge returns the configured session lifetime.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// NewID returns 256 random bits encoded as unpadded base64url (43 characters).
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue creates a session for user bound to ip and userAgent. Any session
// named by previousID is destroyed first so a pre-login identifier never
// survives authentication.
func (m *Manager) Issue(ctx context.Context, previousID string, user *domain.User, ip, userAgent string) (*Session, error) {
	if previousID != "" {
		if err := m.store.Delete(ctx, previousID); err != nil {
			return nil, fmt.Errorf("issue session: destroy previous: %w", err)
		}
	}

	id, err := m.newID()
	if err != nil {
		return nil, fmt.Errorf("issue session: generate id: %w", err)
	}
	now := m.now().UTC()
	s := &Session{
		ID:            id,
		UserID:        user.ID,
		Role:          user.Role,
		AccountNumber: user.AccountNumber,
		LoginTime:     now,
		IP:            ip,
		UserAgent:     userAgent,
		LastActivity:  now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	m.logger.Info("Session issued", "user_id", user.ID, "role", user.Role)
	return s, nil
}

// Validate checks the session named by id against its invariants and
// refreshes its last activity. Any failure destroys the session and
// returns an error wrapping util.ErrSessionInvalid.
func (m *Manager) Validate(ctx context.Context, id, ip, userAgent string) (*Session, error) {
	if id == "" {
		return nil, invalid("no session")
	}
	if !validation.SessionID.Match(id) {
		return nil, invalid("malformed session id")
	}

	s, err := m.store.Get(ctx, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, invalid("unknown session")
	}
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", err)
	}

	now := m.now().UTC()
	var reason string
	switch {
	case now.Sub(s.LoginTime) > m.maxAge:
		reason = "session expired"
	case !validation.Identifier.Match(s.UserID):
		reason = "malformed user id"
	case s.IP != ip:
		reason = "client address changed"
	case s.UserAgent != userAgent:
		reason = "client signature changed"
	}
	if reason != "" {
		m.logger.Warn("Session rejected", "user_id", s.UserID, "reason", reason)
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Error("Failed to destroy rejected session", "error", err)
		}
		return nil, invalid(reason)
	}

	err = m.store.Touch(ctx, id, now)
	if errors.Is(err, util.ErrNotFound) {
		return nil, invalid("session destroyed")
	}
	if err != nil {
		return nil, fmt.Errorf("validate session: refresh: %w", err)
	}
	s.LastActivity = now
	return s, nil
}

// Destroy removes the session named by id. Unknown ids are not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", util.ErrSessionInvalid, reason)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
