package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionVerifier_RoundTrip(t *testing.T) {
	v := NewSessionVerifier("secret", "")
	token, err := v.Sign(SessionTokenInput{UserID: "user-1", Email: "a@b.co", SessionID: "sid-1", Admin: true})
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.True(t, claims.IsAdmin())
}

func TestSessionVerifier_RejectsWrongSecret(t *testing.T) {
	token, err := NewSessionVerifier("one", "").Sign(SessionTokenInput{UserID: "u"})
	require.NoError(t, err)

	_, err = NewSessionVerifier("two", "").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionVerifier_RejectsExpired(t *testing.T) {
	v := NewSessionVerifier("secret", "")
	claims := jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionVerifier_ChecksIssuer(t *testing.T) {
	token, err := NewSessionVerifier("secret", "https://other").Sign(SessionTokenInput{UserID: "u"})
	require.NoError(t, err)

	_, err = NewSessionVerifier("secret", "https://auth.example").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionVerifier_NonAdmin(t *testing.T) {
	v := NewSessionVerifier("secret", "")
	token, err := v.Sign(SessionTokenInput{UserID: "u"})
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
}
