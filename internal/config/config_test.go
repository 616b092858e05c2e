package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("SESSION_JWT_SECRET", "super-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, time.Hour, cfg.Worker.SubscriptionExpiryInterval)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAIModel)
	assert.Equal(t, float32(0.7), cfg.AI.Temperature)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "sb-access-token", cfg.Session.Cookie)
	assert.Equal(t, "ZAR", cfg.PayFast.Currency)
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_JWT_SECRET")
}

func TestLoad_MissingDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUERY_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_CACHE_TTL")
}

func TestAIConfig_APIKey(t *testing.T) {
	c := AIConfig{Provider: "openai", OpenAIAPIKey: "sk-1", GeminiAPIKey: "g-1"}
	assert.Equal(t, "sk-1", c.APIKey())

	c.Provider = "gemini"
	assert.Equal(t, "g-1", c.APIKey())
}

func TestLoadSession_IgnoresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("SESSION_JWT_SECRET", "super-secret")
	t.Setenv("SESSION_ISSUER", "https://auth.example.com")

	session, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "super-secret", session.JWTSecret)
	assert.Equal(t, "https://auth.example.com", session.Issuer)
}

func TestLoadDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_JWT_SECRET", "")

	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "disable", db.SSLMode)
}
