package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestTokenCommand_SignsVerifiableToken(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "dev-secret")
	t.Setenv("SESSION_ISSUER", "")

	token, err := run(t, "token", "--user", "user-1", "--email", "a@example.com", "--admin", "--ttl", "10m")
	require.NoError(t, err)

	claims, err := utils.NewSessionVerifier("dev-secret", "").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.SessionID)
}

func TestTokenCommand_RequiresUser(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "dev-secret")

	_, err := run(t, "token")
	assert.Error(t, err)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "")

	_, err := run(t, "token", "--user", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_JWT_SECRET")
}

func TestKeygenCommand(t *testing.T) {
	key, err := run(t, "keygen")
	require.NoError(t, err)
	assert.Len(t, key, 64)

	_, err = utils.NewSealer(key)
	assert.NoError(t, err)
}

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	_, err := run(t, "migrate", "down", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}
