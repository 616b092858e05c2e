// Package llm calls hosted chat-completion models.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Providers understood by New.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrMissingAPIKey is returned by every call when no key is configured.
	ErrMissingAPIKey = errors.New("LLM API key is not configured")
	// ErrEmptyCompletion is returned when the provider answered without content.
	ErrEmptyCompletion = errors.New("no completion returned by provider")
)

// Request is one system + user prompt pair.
type Request struct {
	System string
	User   string
}

// Completer generates a single completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config selects and tunes a provider.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// New returns the Completer for cfg.Provider. Without an API key it returns a
// Completer that fails every call with ErrMissingAPIKey, so a missing key is a
// per-request error rather than a startup failure.
func New(ctx context.Context, cfg Config) (Completer, error) {
	if cfg.APIKey == "" {
		return unconfigured{}, nil
	}
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// Configured reports whether c was built with an API key.
func Configured(c Completer) bool {
	_, missing := c.(unconfigured)
	return !missing
}

type unconfigured struct{}

func (unconfigured) Complete(context.Context, Request) (string, error) {
	return "", ErrMissingAPIKey
}
