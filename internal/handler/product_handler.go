package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/service"
	"github.com/basetishop/shop_api/internal/utils"
)

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
	mediaService   *service.MediaService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, mediaService *service.MediaService) *ProductHandler {
	return &ProductHandler{productService: productService, mediaService: mediaService}
}

// GetProducts returns the tenant's products, optionally filtered by name.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		FeaturedOnly: c.Query("featured") == "true",
	}

	products, err := h.productService.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err, "Failed to get products")
		return
	}
	utils.Success(c, 200, "Products retrieved successfully", gin.H{"products": products})
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	p, err := h.productService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to get product")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", p)
}

// GetStats returns the inventory cards of the products page.
func (h *ProductHandler) GetStats(c *gin.Context) {
	stats, err := h.productService.Stats(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get product stats")
		return
	}
	utils.Success(c, 200, "Product stats retrieved successfully", stats)
}

// CreateProduct adds a product to the catalog.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	p, err := h.productService.Create(c.Request.Context(), middleware.GetTenantID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", p)
}

// UpdateProduct replaces a product's editable fields.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(c, err)
		return
	}
	p, err := h.productService.Update(c.Request.Context(), middleware.GetTenantID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	utils.Success(c, 200, "Product updated successfully", p)
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), middleware.GetTenantID(c), id); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted successfully", nil)
}

// UploadImage stores the multipart "file" field and returns its public URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if !h.mediaService.Enabled() {
		respondError(c, utils.ErrStorageDisabled, "Failed to upload image")
		return
	}
	maxBytes := h.mediaService.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing image file")
		return
	}
	if fh.Size > maxBytes {
		utils.Error(c, 413, "FILE_TOO_LARGE", "Image exceeds the upload limit")
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unreadable image file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Unreadable image file")
		return
	}

	url, err := h.mediaService.UploadProductImage(c.Request.Context(), middleware.GetTenantID(c), data)
	if err != nil {
		respondError(c, err, "Failed to upload image")
		return
	}
	utils.Success(c, 201, "Image uploaded successfully", gin.H{"url": url})
}
