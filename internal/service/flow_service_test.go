package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/llm"
)

func flowReq(t *testing.T, flow string, params interface{}) FlowRequest {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return FlowRequest{Flow: flow, Params: raw}
}

func TestFlowService_ProductDescription(t *testing.T) {
	fc := &fakeCompleter{out: "A lovely mug."}
	svc := NewFlowService(fc, "OPENAI_API_KEY")

	result, err := svc.Run(context.Background(), flowReq(t, FlowProductDescription, map[string]interface{}{
		"productName": "Mug",
		"productType": "kitchenware",
		"features":    []string{"ceramic", "350ml"},
		"keywords":    []string{"gift"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "A lovely mug.", result)
	assert.Contains(t, fc.last.System, "targeting general audience")
	assert.Contains(t, fc.last.System, "Include these keywords: gift.")
	assert.Contains(t, fc.last.User, "Key features include: ceramic, 350ml.")
}

func TestFlowService_CaptionsPlatformGuidance(t *testing.T) {
	fc := &fakeCompleter{out: "captions"}
	svc := NewFlowService(fc, "OPENAI_API_KEY")

	_, err := svc.Run(context.Background(), flowReq(t, FlowSocialCaptions, map[string]interface{}{
		"productName":        "Mug",
		"productDescription": "A ceramic mug",
		"platform":           "instagram",
		"includeHashtags":    true,
	}))
	require.NoError(t, err)
	assert.Contains(t, fc.last.System, "captions for instagram")
	assert.Contains(t, fc.last.System, "include a call to action")
	assert.Contains(t, fc.last.System, "Include relevant and trending hashtags.")

	_, err = svc.Run(context.Background(), flowReq(t, FlowSocialCaptions, map[string]interface{}{
		"productName":        "Mug",
		"productDescription": "A ceramic mug",
	}))
	require.NoError(t, err)
	assert.Contains(t, fc.last.System, "captions for social media")
	assert.Contains(t, fc.last.System, "Do not include hashtags.")
}

func TestFlowService_CompetitorAnalysis(t *testing.T) {
	fc := &fakeCompleter{out: "analysis"}
	svc := NewFlowService(fc, "OPENAI_API_KEY")

	_, err := svc.Run(context.Background(), flowReq(t, FlowCompetitorAnalysis, map[string]interface{}{
		"productName":        "Mug",
		"productDescription": "A ceramic mug",
		"competitors":        []Competitor{{Name: "CupCo", Description: "plastic cups"}},
	}))
	require.NoError(t, err)
	assert.Contains(t, fc.last.User, "CupCo: plastic cups")
}

func TestFlowService_MissingParams(t *testing.T) {
	fc := &fakeCompleter{}
	svc := NewFlowService(fc, "OPENAI_API_KEY")

	_, err := svc.Run(context.Background(), flowReq(t, FlowCompetitorAnalysis, map[string]interface{}{
		"productName": "Mug",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrMissingParams)
	assert.Equal(t, "Missing required parameters: productDescription, competitors", err.Error())
	assert.Zero(t, fc.calls)
}

func TestFlowService_UnknownFlow(t *testing.T) {
	svc := NewFlowService(&fakeCompleter{}, "OPENAI_API_KEY")

	_, err := svc.Run(context.Background(), FlowRequest{Flow: "writePoem"})
	assert.ErrorIs(t, err, utils.ErrUnknownFlow)
	assert.Equal(t, "Unknown flow: writePoem", err.Error())
}

func TestFlowService_Errors(t *testing.T) {
	params := map[string]interface{}{"productName": "Mug", "productDescription": "d"}

	svc := NewFlowService(&fakeCompleter{err: llm.ErrMissingAPIKey}, "GEMINI_API_KEY")
	_, err := svc.Run(context.Background(), flowReq(t, FlowSocialCaptions, params))
	assert.ErrorIs(t, err, utils.ErrAIKeyMissing)
	assert.Equal(t, "GEMINI_API_KEY is not set", err.Error())

	upstream := errors.New("OpenAI API error: quota exceeded")
	svc = NewFlowService(&fakeCompleter{err: upstream}, "OPENAI_API_KEY")
	_, err = svc.Run(context.Background(), flowReq(t, FlowSocialCaptions, params))
	assert.ErrorIs(t, err, upstream)
}
