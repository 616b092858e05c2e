package handler

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/basetishop/shop_api/internal/utils"
)

// PageHandler serves the single-page app shell for dashboard, auth and shop
// routes. Gating happens in the session middleware in front of it.
type PageHandler struct {
	staticDir string
}

// NewPageHandler creates a PageHandler serving index.html from staticDir.
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// Index writes the SPA shell.
func (h *PageHandler) Index(c *gin.Context) {
	if h.staticDir == "" {
		utils.Error(c, 404, "FRONTEND_NOT_CONFIGURED", "Frontend is not bundled with this deployment")
		return
	}
	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		utils.Error(c, 404, "FRONTEND_NOT_CONFIGURED", "Frontend is not bundled with this deployment")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(index)
}

// NotFound answers unknown API paths with JSON and everything else with the
// SPA shell so client-side routes survive a reload.
func (h *PageHandler) NotFound(c *gin.Context) {
	p := c.Request.URL.Path
	if strings.HasPrefix(p, "/v1/") || strings.HasPrefix(p, "/functions/") || strings.HasPrefix(p, "/webhook/") || c.Request.Method != http.MethodGet {
		utils.Error(c, 404, "NOT_FOUND", "Resource not found")
		return
	}
	h.Index(c)
}

// LegacyStore handles /store/:businessId, moved to /shopapp/:businessId.
func (h *PageHandler) LegacyStore(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/shopapp/"+url.PathEscape(c.Param("businessId")))
}

// LegacyStoreProduct handles /store/:businessId/product/:productId.
func (h *PageHandler) LegacyStoreProduct(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/shopapp/"+url.PathEscape(c.Param("businessId"))+"/product/"+url.PathEscape(c.Param("productId")))
}

// LegacyWebstore handles /webstore, now part of the dashboard.
func (h *PageHandler) LegacyWebstore(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/dashboard/webstore")
}
