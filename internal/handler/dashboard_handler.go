package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// DashboardHandler serves the overview cards.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles GET /v1/dashboard/summary.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get dashboard summary")
		return
	}
	utils.Success(c, 200, "Dashboard summary retrieved successfully", summary)
}
