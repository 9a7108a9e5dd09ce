package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T, handler http.HandlerFunc) (*SessionStore, *MemoryStorage) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage := NewMemoryStorage()
	c := New(storage, WithBaseURL(server.URL))
	return NewSessionStore(c, storage), storage
}

func TestSessionLoginWithPassword(t *testing.T) {
	session, storage := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		w.Write([]byte(`{
			"access_token": "token-abc",
			"token_type": "bearer",
			"role": "citizen",
			"account_status": "active",
			"user": {"id":"u1","full_name":"Asha Rao","email":"asha@example.com","role":"citizen","account_status":"active"}
		}`))
	})

	profile, err := session.LoginWithPassword(context.Background(), "asha@example.com", "Password1!")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "citizen", session.Role())

	token, err := storage.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	role, err := storage.Get(KeyUserRole)
	require.NoError(t, err)
	assert.Equal(t, "citizen", role)

	info, err := storage.Get(KeyUserInfo)
	require.NoError(t, err)
	assert.Contains(t, info, "Asha Rao")
}

func TestSessionLoginFetchesProfileWhenMissing(t *testing.T) {
	session, _ := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/me", r.URL.Path)
		require.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"user":{"id":"u1","full_name":"Asha Rao","role":"citizen","account_status":"active"}}`))
	})

	require.NoError(t, session.Login(context.Background(), "token-abc", nil))

	profile, ok := session.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", profile.ID)
}

func TestSessionLoginFailedFetchTearsDown(t *testing.T) {
	session, storage := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := session.Login(context.Background(), "bad-token", nil)
	require.Error(t, err)
	assert.False(t, session.IsAuthenticated())

	_, getErr := storage.Get(KeyAccessToken)
	assert.ErrorIs(t, getErr, ErrKeyNotFound)
}

func TestSessionLogoutIsIdempotent(t *testing.T) {
	session, storage := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	profile := Profile{ID: "u1", Role: "citizen"}
	require.NoError(t, session.Login(context.Background(), "token-abc", &profile))
	require.True(t, session.IsAuthenticated())

	session.Logout()
	assert.False(t, session.IsAuthenticated())
	_, ok := session.CurrentUser()
	assert.False(t, ok)

	session.Logout()
	assert.False(t, session.IsAuthenticated())

	for _, key := range []string{KeyAccessToken, KeyUserInfo, KeyUserRole} {
		_, err := storage.Get(key)
		assert.ErrorIs(t, err, ErrKeyNotFound, key)
	}
}

func TestSessionHydratesFromStorage(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(KeyAccessToken, "persisted-token"))
	require.NoError(t, storage.Set(KeyUserInfo, `{"id":"u1","full_name":"Asha Rao","role":"citizen"}`))
	require.NoError(t, storage.Set(KeyUserRole, "citizen"))

	c := New(storage)
	session := NewSessionStore(c, storage)

	assert.True(t, session.IsAuthenticated())
	profile, ok := session.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", profile.FullName)
	assert.Equal(t, "citizen", session.Role())
}

func TestSessionFetchCurrentUserFailureLogsOut(t *testing.T) {
	calls := 0
	session, _ := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"user":{"id":"u1","role":"citizen"}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, session.Login(context.Background(), "token-abc", nil))
	require.True(t, session.IsAuthenticated())

	_, err := session.FetchCurrentUser(context.Background())
	require.Error(t, err)
	assert.False(t, session.IsAuthenticated())
}

func TestFileStorageRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileStorage(path)

	require.NoError(t, storage.Set(KeyAccessToken, "token-abc"))
	require.NoError(t, storage.Set(KeyUserRole, "official"))

	// A fresh handle over the same file sees persisted state.
	reopened := NewFileStorage(path)
	token, err := reopened.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	require.NoError(t, reopened.Delete(KeyAccessToken))
	_, err = reopened.Get(KeyAccessToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	role, err := reopened.Get(KeyUserRole)
	require.NoError(t, err)
	assert.Equal(t, "official", role)
}
