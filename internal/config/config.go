package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	SiteURL   string // public URL of the dashboard/storefront SPA
	APIURL    string // public URL of this API, used for webhook callbacks
	StaticDir string // built SPA directory served on page routes

	DB       DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Cache    CacheConfig
	PayFast  PayFastConfig
	Media    MediaConfig
	Security SecurityConfig
	Worker   WorkerConfig
	AI       AIConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Enabled  bool // false falls back to an in-process store (single instance only)
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig describes how provider-issued session tokens are verified.
type SessionConfig struct {
	JWTSecret string
	Issuer    string // optional; when set the "iss" claim must match
	Cookie    string
}

// CacheConfig controls the tenant query cache.
type CacheConfig struct {
	TTL time.Duration
}

// PayFastConfig contains merchant credentials for the PayFast redirect integration.
type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
	Currency    string
}

// MediaConfig contains S3-compatible storage settings for product images.
type MediaConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
	MaxUploadBytes  int64
}

// SecurityConfig holds keys used to protect data at rest.
type SecurityConfig struct {
	TokenSealKey string // 32-byte key, hex encoded, for social OAuth tokens
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SubscriptionExpiryInterval time.Duration
}

// AIConfig selects and configures the hosted LLM used by the content flows.
type AIConfig struct {
	Provider      string        `envconfig:"AI_PROVIDER" default:"openai"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL string        `envconfig:"GEMINI_BASE_URL"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Temperature   float32       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	MaxTokens     int           `envconfig:"AI_MAX_TOKENS" default:"1500"`
	Timeout       time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
}

// APIKey returns the key of the selected provider.
func (c AIConfig) APIKey() string {
	if c.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.SiteURL = getEnv("SITE_URL", "http://localhost:3000")
	cfg.APIURL = getEnv("API_URL", "http://localhost:"+cfg.Port)
	cfg.StaticDir = getEnv("STATIC_DIR", "")

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.DB = *db

	// Redis
	cfg.Redis = RedisConfig{
		Enabled:  getEnv("REDIS_ENABLED", "true") != "false",
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	session, err := loadSession()
	if err != nil {
		return nil, err
	}
	cfg.Session = *session

	// PayFast
	cfg.PayFast = PayFastConfig{
		MerchantID:  getEnv("PAYFAST_MERCHANT_ID", "10000100"),
		MerchantKey: getEnv("PAYFAST_MERCHANT_KEY", "46f0cd694581a"),
		Passphrase:  getEnv("PAYFAST_PASSPHRASE", ""),
		ProcessURL:  getEnv("PAYFAST_PROCESS_URL", "https://sandbox.payfast.co.za/eng/process"),
		Currency:    getEnv("PAYFAST_CURRENCY", "ZAR"),
	}

	// Media (product images)
	cfg.Media = MediaConfig{
		Region:          getEnv("MEDIA_S3_REGION", "af-south-1"),
		Bucket:          getEnv("MEDIA_S3_BUCKET", ""),
		Endpoint:        getEnv("MEDIA_S3_ENDPOINT", ""),
		PublicBaseURL:   getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadBytes:  int64(getEnvInt("MEDIA_MAX_UPLOAD_BYTES", 5<<20)),
	}

	cfg.Security = SecurityConfig{
		TokenSealKey: getEnv("TOKEN_SEAL_KEY", ""),
	}

	// AI providers are grouped in a struct and bound in one pass.
	if err := envconfig.Process("", &cfg.AI); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	// Durations
	if cfg.Cache.TTL, err = parseDurationEnv("QUERY_CACHE_TTL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid QUERY_CACHE_TTL: %w", err)
	}
	if cfg.Worker.SubscriptionExpiryInterval, err = parseDurationEnv("SUBSCRIPTION_EXPIRY_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid SUBSCRIPTION_EXPIRY_INTERVAL: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that need nothing else.
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()
	return loadDatabase()
}

// LoadSession reads only the session settings.
func LoadSession() (*SessionConfig, error) {
	_ = godotenv.Load()
	return loadSession()
}

func loadDatabase() (*DatabaseConfig, error) {
	db := &DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	return db, nil
}

// loadSession reads how provider-issued session tokens are verified.
func loadSession() (*SessionConfig, error) {
	session := &SessionConfig{
		JWTSecret: getEnv("SESSION_JWT_SECRET", ""),
		Issuer:    getEnv("SESSION_ISSUER", ""),
		Cookie:    getEnv("SESSION_COOKIE", "sb-access-token"),
	}
	if session.JWTSecret == "" {
		return nil, errors.New("SESSION_JWT_SECRET must be set to verify sessions")
	}
	return session, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
