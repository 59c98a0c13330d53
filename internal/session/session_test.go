// internal/session/session_test.go
package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-portal/internal/domain"
	"customer-portal/internal/util"
)

const (
	testIP = "203.0.113.7"
	testUA = "Mozilla/5.0 (X11; Linux x86_64)"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T) (*Manager, *MemoryStore, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(DefaultMaxAge, c.Now)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewManager(store, logger, Options{Now: c.Now}), store, c
}

func testUser() *domain.User {
	return domain.NewUser("Jane Doe", "1234567890123", "12345678", "hash", domain.RoleCustomer)
}

func TestNewIDShape(t *testing.T) {
	id, err := NewID()
	require.NoError(t, err)
	assert.Len(t, id, 43)
	assert.Regexp(t, `^[A-Za-z0-9_-]+$`, id)

	other, err := NewID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestIssueAndValidate(t *testing.T) {
	m, _, c := newTestManager(t)
	ctx := context.Background()
	user := testUser()

	s, err := m.Issue(ctx, "", user, testIP, testUA)
	require.NoError(t, err)
	assert.Equal(t, user.ID, s.UserID)
	assert.Equal(t, domain.RoleCustomer, s.Role)
	assert.Equal(t, "12345678", s.AccountNumber)

	c.Advance(5 * time.Minute)
	got, err := m.Validate(ctx, s.ID, testIP, testUA)
	require.NoError(t, err)
	assert.Equal(t, c.now, got.LastActivity)
	assert.Equal(t, s.LoginTime, got.LoginTime)
}

func TestValidateAgeBoundary(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		valid   bool
	}{
		{"At29m59s", 29*time.Minute + 59*time.Second, true},
		{"At30m", 30 * time.Minute, true},
		{"At30m01s", 30*time.Minute + time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, store, c := newTestManager(t)
			ctx := context.Background()

			s, err := m.Issue(ctx, "", testUser(), testIP, testUA)
			require.NoError(t, err)

			c.Advance(tc.elapsed)
			_, err = m.Validate(ctx, s.ID, testIP, testUA)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, util.ErrSessionInvalid)
			assert.Equal(t, 0, store.Len(), "expired session must be destroyed")
		})
	}
}

func TestValidateRejectsChangedClient(t *testing.T) {
	cases := []struct {
		name string
		ip   string
		ua   string
	}{
		{"IPChanged", "198.51.100.1", testUA},
		{"UserAgentChanged", testIP, "curl/8.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _, _ := newTestManager(t)
			ctx := context.Background()

			s, err := m.Issue(ctx, "", testUser(), testIP, testUA)
			require.NoError(t, err)

			_, err = m.Validate(ctx, s.ID, tc.ip, tc.ua)
			assert.ErrorIs(t, err, util.ErrSessionInvalid)

			// The session is gone even for the original client.
			_, err = m.Validate(ctx, s.ID, testIP, testUA)
			assert.ErrorIs(t, err, util.ErrSessionInvalid)
		})
	}
}

func TestValidateRejectsUnknownAndMalformed(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Validate(ctx, "", testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)

	_, err = m.Validate(ctx, "short", testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)

	_, err = m.Validate(ctx, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
}

func TestValidateRejectsMalformedUserID(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	user := testUser()
	user.ID = "bad id!"
	s, err := m.Issue(ctx, "", user, testIP, testUA)
	require.NoError(t, err)

	_, err = m.Validate(ctx, s.ID, testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
}

func TestIssueDestroysPreviousSession(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)

	second, err := m.Issue(ctx, first.ID, testUser(), testIP, testUA)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())

	_, err = m.Validate(ctx, first.ID, testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
	_, err = m.Validate(ctx, second.ID, testIP, testUA)
	assert.NoError(t, err)
}

func TestDestroy(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, s.ID))
	require.NoError(t, m.Destroy(ctx, s.ID))
	require.NoError(t, m.Destroy(ctx, ""))

	_, err = m.Validate(ctx, s.ID, testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
}

// interleavedStore runs afterGet between reading a session and the caller's
// next store call, the window a concurrent logout can land in.
type interleavedStore struct {
	*MemoryStore
	afterGet func(id string)
}

func (s *interleavedStore) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.MemoryStore.Get(ctx, id)
	if s.afterGet != nil {
		s.afterGet(id)
	}
	return sess, err
}

func TestValidateDoesNotResurrectDestroyedSession(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mem := NewMemoryStore(DefaultMaxAge, c.Now)
	store := &interleavedStore{MemoryStore: mem}
	m := NewManager(store, slog.New(slog.NewJSONHandler(io.Discard, nil)), Options{Now: c.Now})
	ctx := context.Background()

	s, err := m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)

	store.afterGet = func(id string) {
		require.NoError(t, m.Destroy(ctx, id))
	}
	_, err = m.Validate(ctx, s.ID, testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)

	store.afterGet = nil
	assert.Equal(t, 0, mem.Len())
	_, err = m.Validate(ctx, s.ID, testIP, testUA)
	assert.ErrorIs(t, err, util.ErrSessionInvalid)
}

func TestMemoryStoreTouch(t *testing.T) {
	m, store, c := newTestManager(t)
	ctx := context.Background()

	s, err := m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)

	c.Advance(time.Minute)
	require.NoError(t, store.Touch(ctx, s.ID, c.Now()))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Now(), got.LastActivity)

	assert.ErrorIs(t, store.Touch(ctx, "missing-session-id-000000", c.Now()), util.ErrNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreSweepsExpiredOnSave(t *testing.T) {
	m, store, c := newTestManager(t)
	ctx := context.Background()

	_, err := m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)

	c.Advance(31 * time.Minute)
	_, err = m.Issue(ctx, "", testUser(), testIP, testUA)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "abc", UserID: "user-0000001"}
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
