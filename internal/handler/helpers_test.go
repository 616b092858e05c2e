package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func claimsFor(userID, email string, admin bool) *models.SessionClaims {
	claims := &models.SessionClaims{
		Email:     email,
		SessionID: "sess-" + userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if admin {
		claims.AppMetadata.Role = "admin"
	}
	return claims
}

// asTenant stands in for the session and tenant middleware.
func asTenant(claims *models.SessionClaims, tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetSession(c, claims)
		role := models.RoleOwner
		if claims.IsAdmin() {
			role = models.RoleAdmin
		}
		middleware.SetTenant(c, &models.TenantContext{
			TenantID:    tenantID,
			UserID:      claims.UserID(),
			Role:        role,
			IsAdmin:     claims.IsAdmin(),
			Permissions: models.PermissionsFor(role),
		})
		c.Next()
	}
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
