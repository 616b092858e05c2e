package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// ContentPlanHandler handles the content calendar.
type ContentPlanHandler struct {
	planService *service.ContentPlanService
}

// NewContentPlanHandler creates a new ContentPlanHandler.
func NewContentPlanHandler(planService *service.ContentPlanService) *ContentPlanHandler {
	return &ContentPlanHandler{planService: planService}
}

func (h *ContentPlanHandler) GetPlans(c *gin.Context) {
	var filter models.ContentPlanFilter
	if v := c.Query("status"); v != "" {
		status := models.ContentStatus(v)
		filter.Status = &status
	}
	plans, err := h.planService.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err, "Failed to get content plans")
		return
	}
	utils.Success(c, 200, "Content plans retrieved successfully", gin.H{"contentPlans": plans})
}

func (h *ContentPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get content plan")
		return
	}
	utils.Success(c, 200, "Content plan retrieved successfully", plan)
}

func (h *ContentPlanHandler) CreatePlan(c *gin.Context) {
	var req models.ContentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create content plan")
		return
	}
	utils.Success(c, 201, "Content plan created successfully", plan)
}

func (h *ContentPlanHandler) UpdatePlan(c *gin.Context) {
	var req models.ContentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update content plan")
		return
	}
	utils.Success(c, 200, "Content plan updated successfully", plan)
}

func (h *ContentPlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), middleware.GetTenantID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete content plan")
		return
	}
	utils.Success(c, 200, "Content plan deleted successfully", nil)
}
