package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

type storefrontReader interface {
	Get(ctx context.Context, businessID string) (*service.Storefront, error)
	GetCategory(ctx context.Context, businessID, category string) (*service.Storefront, error)
	GetProduct(ctx context.Context, businessID string, productID int64) (*service.StoreProfile, *service.StoreProduct, error)
}

// StorefrontHandler serves the public shop pages. No session is required.
type StorefrontHandler struct {
	storefront storefrontReader
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(storefront storefrontReader) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// GetStore handles GET /v1/store/:businessId.
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	store, err := h.storefront.Get(c.Request.Context(), c.Param("businessId"))
	if err != nil {
		respondError(c, err, "Failed to load store")
		return
	}
	utils.Success(c, 200, "Store retrieved successfully", store)
}

// GetCategory handles GET /v1/store/:businessId/category/:categoryName.
func (h *StorefrontHandler) GetCategory(c *gin.Context) {
	store, err := h.storefront.GetCategory(c.Request.Context(), c.Param("businessId"), c.Param("categoryName"))
	if err != nil {
		respondError(c, err, "Failed to load store")
		return
	}
	utils.Success(c, 200, "Store retrieved successfully", store)
}

// GetProduct handles GET /v1/store/:businessId/products/:productId.
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	productID, ok := int64Param(c, "productId")
	if !ok {
		return
	}
	profile, product, err := h.storefront.GetProduct(c.Request.Context(), c.Param("businessId"), productID)
	if err != nil {
		respondError(c, err, "Failed to load product")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", gin.H{
		"profile": profile,
		"product": product,
	})
}
