package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/repository"
	"github.com/basetishop/shop_api/internal/utils"
)

type tenantSwitcher interface {
	Switch(ctx context.Context, claims *models.SessionClaims, tenantID string) (*models.TenantContext, error)
	ListTenants(ctx context.Context) ([]repository.TenantSummary, error)
}

// TenantHandler handles tenant context endpoints.
type TenantHandler struct {
	tenants tenantSwitcher
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenants tenantSwitcher) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Current handles GET /v1/tenant.
func (h *TenantHandler) Current(c *gin.Context) {
	utils.Success(c, 200, "Tenant context retrieved successfully", middleware.GetTenant(c))
}

// Switch handles POST /v1/tenant/switch.
func (h *TenantHandler) Switch(c *gin.Context) {
	var req models.SwitchTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}

	tc, err := h.tenants.Switch(c.Request.Context(), middleware.GetSession(c), req.TenantID)
	if err != nil {
		respondError(c, err, "Failed to switch tenant")
		return
	}
	utils.Success(c, 200, "Tenant switched successfully", tc)
}

// List handles GET /v1/admin/tenants.
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenants.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get tenants")
		return
	}
	utils.Success(c, 200, "Tenants retrieved successfully", gin.H{"tenants": tenants})
}
