package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// GeminiClient generates completions through the eino Gemini chat model.
type GeminiClient struct {
	model     *gemini.ChatModel
	modelName string
}

// NewGeminiClient creates the genai client and wraps it in an eino chat model.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens

	gcfg := &gemini.Config{
		Client:      client,
		Model:       modelName,
		Temperature: &temperature,
	}
	if maxTokens > 0 {
		gcfg.MaxTokens = &maxTokens
	}

	chatModel, err := gemini.NewChatModel(ctx, gcfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}
	return &GeminiClient{model: chatModel, modelName: modelName}, nil
}

// Complete sends the prompt pair as system and user messages.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.User),
	}
	out, err := g.model.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.modelName, err)
	}
	if out == nil || out.Content == "" {
		return "", ErrEmptyCompletion
	}
	return out.Content, nil
}
