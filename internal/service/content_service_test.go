package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/llm"
)

func TestParseIdeas(t *testing.T) {
	completion := "Here are some ideas:\n\n1. Numbered line\n  Behind the scenes tour  \nCustomer spotlight\nRecipe reel\nQ&A live\nUnboxing\nSeventh idea"

	ideas := ParseIdeas(completion)

	assert.Equal(t, []string{
		"Here are some ideas:",
		"Behind the scenes tour",
		"Customer spotlight",
		"Recipe reel",
		"Q&A live",
	}, ideas)
}

func TestParseTrends(t *testing.T) {
	completion := "```json\n{\"trending_topics\":[\"AI\"],\"trending_hashtags\":[\"#ai\"],\"competitor_insights\":[{\"topic\":\"Reels\",\"engagement\":90}]}\n```"

	report, ok := ParseTrends(completion)
	require.True(t, ok)
	assert.Equal(t, []string{"AI"}, report.TrendingTopics)
	assert.Equal(t, 90, report.CompetitorInsights[0].Engagement)

	_, ok = ParseTrends("no json here")
	assert.False(t, ok)
}

func TestContentService_Ideas(t *testing.T) {
	fc := &fakeCompleter{out: "Idea one\nIdea two"}
	svc := NewContentService(fc, "OPENAI_API_KEY")

	got, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "coffee", Type: ContentTypeIdeas})
	require.NoError(t, err)

	assert.Equal(t, []string{"Idea one", "Idea two"}, got)
	assert.Contains(t, fc.last.System, "content ideas for the topic: coffee")
	assert.Equal(t, "Generate content for: coffee", fc.last.User)
}

func TestContentService_FallbackOnUpstreamError(t *testing.T) {
	svc := NewContentService(&fakeCompleter{err: errors.New("OpenAI API error: boom")}, "OPENAI_API_KEY")

	ideas, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: ContentTypeIdeas})
	require.NoError(t, err)
	assert.Equal(t, FallbackIdeas(), ideas)

	trends, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: ContentTypeTrends})
	require.NoError(t, err)
	assert.Equal(t, FallbackTrends(), trends)
}

func TestContentService_FallbackOnEmptyIdeas(t *testing.T) {
	svc := NewContentService(&fakeCompleter{out: "1. only numbered\n2. lines"}, "OPENAI_API_KEY")

	ideas, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: ContentTypeIdeas})
	require.NoError(t, err)
	assert.Equal(t, FallbackIdeas(), ideas)
}

func TestContentService_UnparsableTrends(t *testing.T) {
	svc := NewContentService(&fakeCompleter{out: "Trends are hot right now."}, "OPENAI_API_KEY")

	trends, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: ContentTypeTrends})
	require.NoError(t, err)
	assert.Equal(t, FallbackTrends(), trends)
}

func TestContentService_MissingKey(t *testing.T) {
	svc := NewContentService(&fakeCompleter{err: llm.ErrMissingAPIKey}, "OPENAI_API_KEY")

	_, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: ContentTypeIdeas})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrAIKeyMissing)
	assert.Equal(t, "OPENAI_API_KEY is not set", err.Error())
}

func TestContentService_InvalidType(t *testing.T) {
	fc := &fakeCompleter{out: "x"}
	svc := NewContentService(fc, "OPENAI_API_KEY")

	_, err := svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: "memes"})
	assert.ErrorIs(t, err, utils.ErrInvalidContentType)
	assert.Equal(t, "Invalid content type specified", err.Error())
	assert.Zero(t, fc.calls)
}

func TestContentService_MissingKeyCheckedBeforeType(t *testing.T) {
	completer, err := llm.New(context.Background(), llm.Config{Provider: llm.ProviderOpenAI})
	require.NoError(t, err)
	svc := NewContentService(completer, "OPENAI_API_KEY")

	_, err = svc.Generate(context.Background(), GenerateContentRequest{Topic: "x", Type: "memes"})
	assert.ErrorIs(t, err, utils.ErrAIKeyMissing)
}
