package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// BusinessProfileHandler handles the profile setup and store settings pages.
type BusinessProfileHandler struct {
	profileService *service.BusinessProfileService
	storefront     *service.StorefrontService
}

// NewBusinessProfileHandler creates a new BusinessProfileHandler.
func NewBusinessProfileHandler(profileService *service.BusinessProfileService, storefront *service.StorefrontService) *BusinessProfileHandler {
	return &BusinessProfileHandler{profileService: profileService, storefront: storefront}
}

// GetProfile handles GET /v1/business-profile.
func (h *BusinessProfileHandler) GetProfile(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	p, err := h.profileService.Get(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to get business profile")
		return
	}
	utils.Success(c, 200, "Business profile retrieved successfully", gin.H{
		"profile":  p,
		"storeUrl": h.storefront.StoreURL(tenantID),
	})
}

// UpsertProfile handles PUT /v1/business-profile.
func (h *BusinessProfileHandler) UpsertProfile(c *gin.Context) {
	var req models.UpsertBusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	p, err := h.profileService.Upsert(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to save business profile")
		return
	}
	utils.Success(c, 200, "Business profile saved successfully", p)
}

// UpdateSettings handles PUT /v1/business-profile/settings.
func (h *BusinessProfileHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateStoreSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	settings, err := h.profileService.UpdateSettings(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update store settings")
		return
	}
	utils.Success(c, 200, "Store settings updated successfully", settings)
}
