package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

// TenantHeader lets admins address another business per request.
const TenantHeader = "X-Tenant-Id"

type tenantResolver interface {
	Resolve(ctx context.Context, claims *models.SessionClaims, requestedTenantID string) (*models.TenantContext, error)
}

// TenantMiddleware resolves the business a request operates on.
type TenantMiddleware struct {
	resolver tenantResolver
}

// NewTenantMiddleware constructs a new TenantMiddleware.
func NewTenantMiddleware(resolver tenantResolver) *TenantMiddleware {
	return &TenantMiddleware{resolver: resolver}
}

// Handle must run after SessionMiddleware.
func (m *TenantMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetSession(c)
		if claims == nil {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session token")
			c.Abort()
			return
		}

		tc, err := m.resolver.Resolve(c.Request.Context(), claims, c.GetHeader(TenantHeader))
		if err != nil {
			if errors.Is(err, utils.ErrTenantNotFound) {
				utils.Error(c, http.StatusNotFound, "TENANT_NOT_FOUND", "Business not found")
			} else {
				log.Error().Err(err).Str("user_id", claims.UserID()).Msg("tenant resolution failed")
				utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unable to load your business")
			}
			c.Abort()
			return
		}

		SetTenant(c, tc)
		c.Next()
	}
}

// RequirePermission rejects tenants whose role lacks perm.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := GetTenant(c)
		if tc == nil || !tc.Can(perm) {
			utils.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to access this feature")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetSession(c)
		if claims == nil || !claims.IsAdmin() {
			utils.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to access this area")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetTenant stores the resolved tenant context on the request context.
func SetTenant(c *gin.Context, tc *models.TenantContext) {
	c.Set(ctxTenant, tc)
	c.Set(ctxTenantID, tc.TenantID)
}

// GetTenant returns the resolved tenant context.
func GetTenant(c *gin.Context) *models.TenantContext {
	v, ok := c.Get(ctxTenant)
	if !ok {
		return nil
	}
	tc, _ := v.(*models.TenantContext)
	return tc
}

// GetTenantID returns the resolved tenant id or "".
func GetTenantID(c *gin.Context) string {
	return c.GetString(ctxTenantID)
}
