package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

const (
	generateContentDetails = "If this error persists, please try again in a few minutes."
	flowDetails            = "If this error persists, please check your API configuration."
)

type contentGenerator interface {
	Generate(ctx context.Context, req service.GenerateContentRequest) (interface{}, error)
}

type flowRunner interface {
	Run(ctx context.Context, req service.FlowRequest) (string, error)
}

// FunctionsHandler serves the AI content endpoints. The /functions routes
// answer with bare JSON for the storefront builder; the /v1/ai aliases use
// the standard envelope.
type FunctionsHandler struct {
	content contentGenerator
	flows   flowRunner
}

// NewFunctionsHandler creates a new FunctionsHandler.
func NewFunctionsHandler(content contentGenerator, flows flowRunner) *FunctionsHandler {
	return &FunctionsHandler{content: content, flows: flows}
}

// GenerateContent handles POST /functions/v1/generate-content.
func (h *FunctionsHandler) GenerateContent(c *gin.Context) {
	var req service.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		functionError(c, err, generateContentDetails)
		return
	}
	out, err := h.content.Generate(c.Request.Context(), req)
	if errors.Is(err, utils.ErrInvalidContentType) {
		// The builder treats anything that is not "ideas" as a trends request.
		log.Warn().Str("type", req.Type).Msg("unknown content type, using trends fallback")
		c.JSON(200, service.FallbackTrends())
		return
	}
	if err != nil {
		functionError(c, err, generateContentDetails)
		return
	}
	c.JSON(200, out)
}

// RunFlow handles POST /functions/v1/genkit-flows.
func (h *FunctionsHandler) RunFlow(c *gin.Context) {
	var req service.FlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		functionError(c, err, flowDetails)
		return
	}
	result, err := h.flows.Run(c.Request.Context(), req)
	if err != nil {
		functionError(c, err, flowDetails)
		return
	}
	c.JSON(200, gin.H{"result": result})
}

func functionError(c *gin.Context, err error, details string) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("AI function failed")
	c.JSON(500, gin.H{"error": err.Error(), "details": details})
}

// AIGenerateContent handles POST /v1/ai/generate-content.
func (h *FunctionsHandler) AIGenerateContent(c *gin.Context) {
	var req service.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	out, err := h.content.Generate(c.Request.Context(), req)
	if err != nil {
		aiError(c, err)
		return
	}
	utils.Success(c, 200, "Content generated successfully", out)
}

// AIRunFlow handles POST /v1/ai/flows.
func (h *FunctionsHandler) AIRunFlow(c *gin.Context) {
	var req service.FlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	result, err := h.flows.Run(c.Request.Context(), req)
	if err != nil {
		aiError(c, err)
		return
	}
	utils.Success(c, 200, "Flow completed successfully", gin.H{"result": result})
}

func aiError(c *gin.Context, err error) {
	var aiErr *service.AIError
	if !errors.As(err, &aiErr) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("AI provider request failed")
		utils.Error(c, 502, "AI_PROVIDER_ERROR", "AI provider request failed")
		return
	}
	switch {
	case errors.Is(err, utils.ErrAIKeyMissing):
		utils.Error(c, 503, "AI_KEY_MISSING", aiErr.Message)
	case errors.Is(err, utils.ErrUnknownFlow):
		utils.Error(c, 400, "UNKNOWN_FLOW", aiErr.Message)
	case errors.Is(err, utils.ErrInvalidContentType):
		utils.Error(c, 400, "INVALID_CONTENT_TYPE", aiErr.Message)
	default:
		utils.Error(c, 400, "INVALID_PARAMS", aiErr.Message)
	}
}
