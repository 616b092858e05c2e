package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	key, err := GenerateSealKey()
	require.NoError(t, err)
	s, err := NewSealer(key)
	require.NoError(t, err)

	sealed, err := s.Seal("oauth-token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "oauth-token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "oauth-token", plain)
}

func TestSealer_WrongKey(t *testing.T) {
	k1, _ := GenerateSealKey()
	k2, _ := GenerateSealKey()
	s1, _ := NewSealer(k1)
	s2, _ := NewSealer(k2)

	sealed, err := s1.Seal("x")
	require.NoError(t, err)
	_, err = s2.Open(sealed)
	assert.Error(t, err)
}

func TestNewSealer_BadKey(t *testing.T) {
	_, err := NewSealer("abcd")
	assert.Error(t, err)
	_, err = NewSealer("zz")
	assert.Error(t, err)
}
