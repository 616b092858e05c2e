package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// SocialHandler handles connected social media accounts.
type SocialHandler struct {
	socialService *service.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) GetConnections(c *gin.Context) {
	conns, err := h.socialService.List(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get social connections")
		return
	}
	utils.Success(c, 200, "Social connections retrieved successfully", gin.H{"connections": conns})
}

// Connect handles PUT /v1/social-connections; one connection per platform.
func (h *SocialHandler) Connect(c *gin.Context) {
	var req models.UpsertSocialConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	conn, err := h.socialService.Connect(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to connect account")
		return
	}
	utils.Success(c, 200, "Account connected successfully", conn)
}

func (h *SocialHandler) Disconnect(c *gin.Context) {
	if err := h.socialService.Disconnect(c.Request.Context(), middleware.GetTenantID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to disconnect account")
		return
	}
	utils.Success(c, 200, "Account disconnected successfully", nil)
}
