package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/service/prompts"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/llm"
)

// Flow names accepted by Run.
const (
	FlowProductDescription = "generateProductDescription"
	FlowSocialCaptions     = "suggestSocialMediaCaptions"
	FlowCompetitorAnalysis = "competitorAnalysis"
)

// AIError is a failure of an AI endpoint with the message shown to the caller.
type AIError struct {
	Err     error
	Message string
}

func (e *AIError) Error() string { return e.Message }

func (e *AIError) Unwrap() error { return e.Err }

func missingKey(keyEnv string) error {
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	return &AIError{Err: utils.ErrAIKeyMissing, Message: keyEnv + " is not set"}
}

// FlowRequest is the body of genkit-flows.
type FlowRequest struct {
	Flow   string          `json:"flow"`
	Params json.RawMessage `json:"params"`
}

// ProductDescriptionParams are the inputs of generateProductDescription.
type ProductDescriptionParams struct {
	ProductName    string   `json:"productName"`
	ProductType    string   `json:"productType"`
	Features       []string `json:"features"`
	TargetAudience string   `json:"targetAudience"`
	Keywords       []string `json:"keywords"`
}

// SocialCaptionsParams are the inputs of suggestSocialMediaCaptions.
type SocialCaptionsParams struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	Platform           string `json:"platform"`
	IncludeHashtags    bool   `json:"includeHashtags"`
}

// Competitor is one entry of a competitor analysis.
type Competitor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompetitorAnalysisParams are the inputs of competitorAnalysis.
type CompetitorAnalysisParams struct {
	ProductName        string       `json:"productName"`
	ProductDescription string       `json:"productDescription"`
	Competitors        []Competitor `json:"competitors"`
}

var platformGuidance = map[string]string{
	"instagram": "Instagram captions should be visually descriptive and include a call to action.",
	"tiktok":    "TikTok captions should be short, catchy, and trend-aware.",
	"x":         "X (Twitter) captions should be concise, witty, and informative.",
}

// FlowService runs the named product marketing flows.
type FlowService struct {
	llm    llm.Completer
	keyEnv string
}

// NewFlowService creates a new FlowService.
func NewFlowService(completer llm.Completer, keyEnv string) *FlowService {
	return &FlowService{llm: completer, keyEnv: keyEnv}
}

// Run dispatches on the flow name and returns the generated text.
func (s *FlowService) Run(ctx context.Context, req FlowRequest) (string, error) {
	var (
		name string
		vars map[string]any
		err  error
	)
	switch req.Flow {
	case FlowProductDescription:
		name = prompts.ProductDescription
		vars, err = productDescriptionVars(req.Params)
	case FlowSocialCaptions:
		name = prompts.SocialCaptions
		vars, err = socialCaptionsVars(req.Params)
	case FlowCompetitorAnalysis:
		name = prompts.CompetitorAnalysis
		vars, err = competitorAnalysisVars(req.Params)
	default:
		return "", &AIError{Err: utils.ErrUnknownFlow, Message: "Unknown flow: " + req.Flow}
	}
	if err != nil {
		return "", err
	}

	log.Info().Str("flow", req.Flow).Msg("running AI flow")

	prompt, err := prompts.Render(ctx, name, vars)
	if err != nil {
		return "", err
	}

	result, err := s.llm.Complete(ctx, prompt)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return "", missingKey(s.keyEnv)
	}
	if err != nil {
		log.Error().Err(err).Str("flow", req.Flow).Msg("AI flow failed")
		return "", err
	}
	return result, nil
}

func decodeParams(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &AIError{Err: utils.ErrMissingParams, Message: "Invalid params: " + err.Error()}
	}
	return nil
}

func requireParams(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &AIError{Err: utils.ErrMissingParams, Message: "Missing required parameters: " + strings.Join(missing, ", ")}
}

func productDescriptionVars(raw json.RawMessage) (map[string]any, error) {
	var p ProductDescriptionParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	var missing []string
	if strings.TrimSpace(p.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if strings.TrimSpace(p.ProductType) == "" {
		missing = append(missing, "productType")
	}
	if len(p.Features) == 0 {
		missing = append(missing, "features")
	}
	if err := requireParams(missing); err != nil {
		return nil, err
	}
	if p.TargetAudience == "" {
		p.TargetAudience = "general"
	}
	return map[string]any{
		"ProductName":    p.ProductName,
		"ProductType":    p.ProductType,
		"TargetAudience": p.TargetAudience,
		"Features":       strings.Join(p.Features, ", "),
		"Keywords":       strings.Join(p.Keywords, ", "),
	}, nil
}

func socialCaptionsVars(raw json.RawMessage) (map[string]any, error) {
	var p SocialCaptionsParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	var missing []string
	if strings.TrimSpace(p.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if strings.TrimSpace(p.ProductDescription) == "" {
		missing = append(missing, "productDescription")
	}
	if err := requireParams(missing); err != nil {
		return nil, err
	}

	platform := strings.ToLower(p.Platform)
	audience := platform
	if platform == "" || platform == "general" {
		audience = "social media"
	}
	return map[string]any{
		"Audience":           audience,
		"Guidance":           platformGuidance[platform],
		"IncludeHashtags":    p.IncludeHashtags,
		"ProductName":        p.ProductName,
		"ProductDescription": p.ProductDescription,
	}, nil
}

func competitorAnalysisVars(raw json.RawMessage) (map[string]any, error) {
	var p CompetitorAnalysisParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	var missing []string
	if strings.TrimSpace(p.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if strings.TrimSpace(p.ProductDescription) == "" {
		missing = append(missing, "productDescription")
	}
	if len(p.Competitors) == 0 {
		missing = append(missing, "competitors")
	}
	if err := requireParams(missing); err != nil {
		return nil, err
	}
	return map[string]any{
		"ProductName":        p.ProductName,
		"ProductDescription": p.ProductDescription,
		"Competitors":        p.Competitors,
	}, nil
}

