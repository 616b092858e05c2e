package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/utils"
)

const maxNotificationBytes = 64 << 10

type notificationHandler interface {
	HandleNotification(ctx context.Context, body []byte) error
}

// WebhookHandler handles PayFast instant transaction notifications (ITN).
type WebhookHandler struct {
	subscriptions notificationHandler
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(subscriptions notificationHandler) *WebhookHandler {
	return &WebhookHandler{subscriptions: subscriptions}
}

// HandlePayFast handles POST /webhook/payfast. PayFast only needs a 200; a
// 400 is returned for posts that fail verification and a 500 when the
// payment could not be stored, so PayFast retries.
func (h *WebhookHandler) HandlePayFast(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes))
	if err != nil {
		c.String(400, "invalid body")
		return
	}

	err = h.subscriptions.HandleNotification(c.Request.Context(), body)
	switch {
	case err == nil:
	case errors.Is(err, utils.ErrInvalidSignature):
		log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("Rejected PayFast notification")
		c.String(400, "invalid notification")
		return
	case errors.Is(err, utils.ErrUnknownPlan), errors.Is(err, utils.ErrPaymentMismatch):
		log.Warn().Err(err).Msg("PayFast notification ignored")
	default:
		log.Error().Err(err).Msg("Failed to process PayFast notification")
		c.String(500, "processing failed")
		return
	}

	c.Status(200)
}
