package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		Email: "ana@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo"))
	require.NoError(t, err)
	return token
}

func TestSession_SetAndClaims(t *testing.T) {
	s := New("")
	token := signedToken(t, "admin", time.Now().Add(time.Hour))

	require.NoError(t, s.Set(token))

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, s.Authenticated(time.Now()))
	assert.False(t, s.Authenticated(time.Now().Add(2*time.Hour)))
}

func TestSession_OpaqueToken(t *testing.T) {
	s := New("")

	require.NoError(t, s.Set("opaque-token"))

	assert.Equal(t, "opaque-token", s.Token())
	assert.True(t, s.Authenticated(time.Now()))
	claims, err := s.Claims()
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}

func TestSession_ClearRunsCallbacksOnce(t *testing.T) {
	s := New("")
	calls := 0
	s.OnClear(func() { calls++ })

	require.NoError(t, s.Set("tok"))
	s.Clear()
	s.Clear()

	assert.Equal(t, 1, calls)
	assert.Empty(t, s.Token())
	_, err := s.Claims()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSession_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := signedToken(t, "viewer", time.Now().Add(time.Hour))

	first := New(path)
	require.NoError(t, first.Set(token))

	second := New(path)
	assert.Equal(t, token, second.Token())

	second.Clear()
	third := New(path)
	assert.Empty(t, third.Token())
}

func TestSession_RejectsEmptyToken(t *testing.T) {
	s := New("")
	assert.Error(t, s.Set(""))
}
