package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/service/prompts"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/llm"
)

// Content types accepted by Generate.
const (
	ContentTypeIdeas  = "ideas"
	ContentTypeTrends = "trends"
)

const maxIdeas = 5

// CompetitorInsight is one engagement score in a trends report.
type CompetitorInsight struct {
	Topic      string `json:"topic"`
	Engagement int    `json:"engagement"`
}

// TrendsReport is the trends payload of generate-content.
type TrendsReport struct {
	TrendingTopics     []string            `json:"trending_topics"`
	TrendingHashtags   []string            `json:"trending_hashtags"`
	CompetitorInsights []CompetitorInsight `json:"competitor_insights"`
}

// GenerateContentRequest is the body of generate-content.
type GenerateContentRequest struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
}

var fallbackIdeas = []string{
	"Share industry tips and best practices",
	"Create how-to guides for common problems",
	"Highlight customer success stories",
	"Share behind-the-scenes content",
	"Post industry news and updates",
}

var fallbackTrends = TrendsReport{
	TrendingTopics: []string{
		"Digital Marketing Strategy",
		"Social Media Analytics",
		"Content Creation Tips",
		"Brand Building",
		"Customer Engagement",
	},
	TrendingHashtags: []string{
		"#DigitalMarketing",
		"#SocialMediaTips",
		"#ContentCreation",
		"#MarketingStrategy",
		"#BrandGrowth",
	},
	CompetitorInsights: []CompetitorInsight{
		{Topic: "Video Content", Engagement: 85},
		{Topic: "Influencer Partnerships", Engagement: 75},
		{Topic: "User-Generated Content", Engagement: 70},
		{Topic: "Live Streaming", Engagement: 65},
		{Topic: "Interactive Posts", Engagement: 60},
	},
}

// FallbackIdeas returns a copy of the canned ideas.
func FallbackIdeas() []string {
	return append([]string(nil), fallbackIdeas...)
}

// FallbackTrends returns the canned trends report.
func FallbackTrends() TrendsReport {
	return fallbackTrends
}

var numberedLine = regexp.MustCompile(`^\d+\.`)

// ContentService generates marketing ideas and trend reports.
type ContentService struct {
	llm    llm.Completer
	keyEnv string
}

// NewContentService creates a new ContentService. keyEnv names the API key
// variable in configuration errors.
func NewContentService(completer llm.Completer, keyEnv string) *ContentService {
	return &ContentService{llm: completer, keyEnv: keyEnv}
}

// Generate returns []string for ideas or TrendsReport for trends. Upstream
// failures never surface: the caller gets the canned content for the type.
// Only a missing API key or an unknown type is an error, and the key is
// checked first.
func (s *ContentService) Generate(ctx context.Context, req GenerateContentRequest) (interface{}, error) {
	if !llm.Configured(s.llm) {
		return nil, missingKey(s.keyEnv)
	}

	var name string
	switch req.Type {
	case ContentTypeIdeas:
		name = prompts.Ideas
	case ContentTypeTrends:
		name = prompts.Trends
	default:
		return nil, &AIError{Err: utils.ErrInvalidContentType, Message: "Invalid content type specified"}
	}

	log.Info().Str("type", req.Type).Str("topic", req.Topic).Msg("generating content")

	prompt, err := prompts.Render(ctx, name, map[string]any{"Topic": req.Topic})
	if err != nil {
		return nil, err
	}

	completion, err := s.llm.Complete(ctx, prompt)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return nil, missingKey(s.keyEnv)
	}
	if err != nil {
		log.Warn().Err(err).Str("type", req.Type).Msg("content generation failed, using fallback")
		return fallbackFor(req.Type), nil
	}

	if req.Type == ContentTypeIdeas {
		if ideas := ParseIdeas(completion); len(ideas) > 0 {
			return ideas, nil
		}
		return FallbackIdeas(), nil
	}

	report, ok := ParseTrends(completion)
	if !ok {
		log.Warn().Str("type", req.Type).Msg("unparsable trends completion, using fallback")
		return FallbackTrends(), nil
	}
	return report, nil
}

func fallbackFor(contentType string) interface{} {
	if contentType == ContentTypeIdeas {
		return FallbackIdeas()
	}
	return FallbackTrends()
}

// ParseIdeas keeps up to five non-empty lines that do not start with "<n>.".
func ParseIdeas(completion string) []string {
	ideas := make([]string, 0, maxIdeas)
	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || numberedLine.MatchString(line) {
			continue
		}
		ideas = append(ideas, line)
		if len(ideas) == maxIdeas {
			break
		}
	}
	return ideas
}

// ParseTrends extracts the JSON object of a completion, tolerating code fences
// and surrounding prose. ok is false when nothing usable was found.
func ParseTrends(completion string) (TrendsReport, bool) {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return TrendsReport{}, false
	}

	var report TrendsReport
	if err := json.Unmarshal([]byte(completion[start:end+1]), &report); err != nil {
		return TrendsReport{}, false
	}
	if len(report.TrendingTopics) == 0 && len(report.TrendingHashtags) == 0 && len(report.CompetitorInsights) == 0 {
		return TrendsReport{}, false
	}
	if report.TrendingTopics == nil {
		report.TrendingTopics = []string{}
	}
	if report.TrendingHashtags == nil {
		report.TrendingHashtags = []string{}
	}
	if report.CompetitorInsights == nil {
		report.CompetitorInsights = []CompetitorInsight{}
	}
	return report, true
}
