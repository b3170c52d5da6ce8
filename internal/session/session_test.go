package session_test

import (
	"os"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	keyring.MockInit()
	t.Setenv(session.TokenEnv, "")
	return session.NewStore(t.TempDir())
}

func TestSaveLoadClear(t *testing.T) {
	store := newStore(t)
	user := domain.User{Username: "admin", Role: domain.RoleAdmin, DisplayName: "Administrador"}

	err := store.Save(session.Session{User: user, Server: "http://localhost:8080", ExpiresAt: time.Now().Add(time.Hour)}, "tok-123")
	require.NoError(t, err)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "session file should be private")

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-123", "token must not be written to the session file")

	sess, token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, user, sess.User)
	assert.Equal(t, "tok-123", token)
	assert.False(t, sess.SavedAt.IsZero())

	require.NoError(t, store.Clear())
	_, _, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}

func TestLoad_Expired(t *testing.T) {
	store := newStore(t)

	err := store.Save(session.Session{User: domain.User{Username: "funcionario", Role: domain.RoleEmployee}, ExpiresAt: time.Now().Add(-time.Minute)}, "old")
	require.NoError(t, err)

	sess, token, err := store.Load()
	assert.ErrorIs(t, err, session.ErrExpired)
	require.NotNil(t, sess)
	assert.Equal(t, "funcionario", sess.User.Username)
	assert.Empty(t, token)
}

func TestToken_EnvOverride(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(session.Session{User: domain.User{Username: "admin"}}, "stored"))

	t.Setenv(session.TokenEnv, "from-env")
	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
}

func TestSave_EmptyToken(t *testing.T) {
	store := newStore(t)
	assert.Error(t, store.Save(session.Session{}, ""))
}

func TestSessionExpired_ZeroNeverExpires(t *testing.T) {
	var s session.Session
	assert.False(t, s.Expired(time.Now()))
}

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("FEEDTRACK_CONFIG_DIR", "/tmp/feedtrack-test")
	dir, err := session.Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/feedtrack-test", dir)
}
