// internal/session/cookie_test.go
package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-portal/internal/util"
)

func TestCookieRoundTrip(t *testing.T) {
	codec := NewCookieCodec("", "test-secret", true, 30*time.Minute)
	assert.Equal(t, DefaultCookieName, codec.Name())

	cookie, err := codec.Cookie("session-id-0000000000000000")
	require.NoError(t, err)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 1800, cookie.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	id, err := codec.Read(req)
	require.NoError(t, err)
	assert.Equal(t, "session-id-0000000000000000", id)
}

func TestCookieReadWithoutCookie(t *testing.T) {
	codec := NewCookieCodec("sid", "test-secret", false, 0)
	id, err := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCookieRejectsForgedValue(t *testing.T) {
	codec := NewCookieCodec("sid", "test-secret", false, 0)
	other := NewCookieCodec("sid", "another-secret", false, 0)

	forged, err := other.Cookie("session-id-0000000000000000")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(forged)
	_, err = codec.Read(req)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)

	_, err = codec.Decode("session-id-0000000000000000")
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
}

func TestCookieClear(t *testing.T) {
	codec := NewCookieCodec("sid", "test-secret", false, 0)
	cleared := codec.Clear()
	assert.Equal(t, "sid", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:52341"
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.RemoteAddr = "198.51.100.2"
	assert.Equal(t, "198.51.100.2", ClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientIP(req))
}
