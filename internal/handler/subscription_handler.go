package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
	"github.com/basetishop/shop_api/pkg/payfast"
)

type subscriptionManager interface {
	Plans() []models.Plan
	Status(ctx context.Context, tenantID string) (*models.SubscriptionStatus, error)
	History(ctx context.Context, tenantID string) ([]models.Subscription, error)
	Checkout(tenantID, email, planKey string) (*payfast.Form, error)
}

// SubscriptionHandler handles plan selection and the PayFast checkout.
type SubscriptionHandler struct {
	subscriptions subscriptionManager
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptions subscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// GetPlans handles GET /v1/subscription/plans.
func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	utils.Success(c, 200, "Plans retrieved successfully", gin.H{"plans": h.subscriptions.Plans()})
}

// GetStatus handles GET /v1/subscription.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	status, err := h.subscriptions.Status(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get subscription")
		return
	}
	utils.Success(c, 200, "Subscription retrieved successfully", status)
}

// GetHistory handles GET /v1/subscription/history.
func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	history, err := h.subscriptions.History(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get subscription history")
		return
	}
	utils.Success(c, 200, "Subscription history retrieved successfully", gin.H{"subscriptions": history})
}

// Checkout handles POST /v1/subscription/checkout and returns the form the
// dashboard submits to PayFast.
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	form, err := h.checkout(c, req.Plan)
	if err != nil {
		respondError(c, err, "Failed to create checkout")
		return
	}
	utils.Success(c, 200, "Checkout created successfully", form)
}

// CheckoutForm handles GET /v1/subscription/checkout/:plan/form with a page
// that submits itself to PayFast.
func (h *SubscriptionHandler) CheckoutForm(c *gin.Context) {
	form, err := h.checkout(c, c.Param("plan"))
	if err != nil {
		respondError(c, err, "Failed to create checkout")
		return
	}
	page, err := service.RenderCheckoutPage(form)
	if err != nil {
		respondError(c, err, "Failed to render checkout")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(200, "text/html; charset=utf-8", page)
}

func (h *SubscriptionHandler) checkout(c *gin.Context, plan string) (*payfast.Form, error) {
	var email string
	if claims := middleware.GetSession(c); claims != nil {
		email = claims.Email
	}
	return h.subscriptions.Checkout(middleware.GetTenantID(c), email, plan)
}
