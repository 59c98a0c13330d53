// internal/session/cookie.go
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"customer-portal/internal/util"
)

// DefaultCookieName matches the cookie name existing clients already send.
const DefaultCookieName = "secureSessionId"

// cookieClaims is the signed payload of the session cookie.
type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec carries a session id in an HS256-signed cookie value.
type CookieCodec struct {
	name   string
	secret []byte
	secure bool
	maxAge time.Duration
}

// NewCookieCodec creates a codec. Empty name selects DefaultCookieName.
func NewCookieCodec(name, secret string, secure bool, maxAge time.Duration) *CookieCodec {
	if name == "" {
		name = DefaultCookieName
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &CookieCodec{name: name, secret: []byte(secret), secure: secure, maxAge: maxAge}
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string {
	return c.name
}

// Cookie builds the HttpOnly, SameSite=Lax cookie carrying sessionID.
func (c *CookieCodec) Cookie(sessionID string) (*http.Cookie, error) {
	now := time.Now()
	claims := &cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns a cookie that removes the session cookie from the client.
func (c *CookieCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Read extracts the session id from r. It returns "" and nil when no cookie
// is present, and an error wrapping util.ErrSessionInvalid when the cookie
// does not carry a valid signature.
func (c *CookieCodec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrSessionInvalid, err)
	}
	return c.Decode(cookie.Value)
}

// Decode verifies value and returns the session id it carries.
func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrSessionInvalid, err)
	}
	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("%w: %v", util.ErrSessionInvalid, jwt.ErrTokenInvalidClaims)
	}
	return claims.SessionID, nil
}
