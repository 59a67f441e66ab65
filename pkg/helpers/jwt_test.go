package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	token, exp, err := m.GenerateAccessToken("42", "admin", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := m.Parse(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestJWTRejectsWrongType(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	refresh, _, err := m.GenerateRefreshToken("42", "admin", "admin")
	require.NoError(t, err)

	_, err = m.Parse(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = m.Parse(refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, -time.Minute)

	token, _, err := m.GenerateAccessToken("42", "admin", "admin")
	require.NoError(t, err)

	_, err = m.Parse(token, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTManager("secret-a", 15*time.Minute, time.Hour)
	verifier := NewJWTManager("secret-b", 15*time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken("42", "admin", "admin")
	require.NoError(t, err)

	_, err = verifier.Parse(token, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTRandomSecretWhenEmpty(t *testing.T) {
	a := NewJWTManager("", time.Minute, time.Hour)
	b := NewJWTManager("", time.Minute, time.Hour)
	assert.NotEqual(t, a.Secret, b.Secret)
	assert.Len(t, a.Secret, 128) // 64 random bytes hex encoded
}
