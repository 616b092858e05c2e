package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

// Context keys set by the session and tenant middleware.
const (
	ctxSession  = "session"
	ctxUserID   = "user_id"
	ctxTenant   = "tenant"
	ctxTenantID = "tenant_id"
)

// DefaultAfterLogin is where authenticated visitors of / and /auth land.
const DefaultAfterLogin = "/dashboard"

var (
	errNoSession    = errors.New("no session token")
	errSessionCheck = errors.New("session check unavailable")
)

type sessionVerifier interface {
	Verify(token string) (*models.SessionClaims, error)
}

type revocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionMiddleware gates API and page routes on a provider-issued session token.
type SessionMiddleware struct {
	verifier    sessionVerifier
	revocations revocationChecker
	cookie      string
	rateLimiter *InvalidAuthRateLimiter
}

// NewSessionMiddleware constructs a new SessionMiddleware.
func NewSessionMiddleware(verifier sessionVerifier, revocations revocationChecker, cookie string, rateLimiter *InvalidAuthRateLimiter) *SessionMiddleware {
	return &SessionMiddleware{
		verifier:    verifier,
		revocations: revocations,
		cookie:      cookie,
		rateLimiter: rateLimiter,
	}
}

// tokenFrom reads the token from the Authorization header, then the session
// cookie, then (for event streams) the token query parameter.
func (m *SessionMiddleware) tokenFrom(c *gin.Context, allowQuery bool) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if m.cookie != "" {
		if v, err := c.Cookie(m.cookie); err == nil && v != "" {
			return v
		}
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

func (m *SessionMiddleware) authenticate(c *gin.Context, allowQuery bool) (*models.SessionClaims, error) {
	token := m.tokenFrom(c, allowQuery)
	if token == "" {
		return nil, errNoSession
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.SessionID != "" {
		revoked, err := m.revocations.IsRevoked(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.Error().Err(err).Str("user_id", claims.UserID()).Msg("session revocation check failed")
			return nil, errSessionCheck
		}
		if revoked {
			return nil, utils.ErrSessionRevoked
		}
	}
	return claims, nil
}

// SetSession stores verified claims on the request context.
func SetSession(c *gin.Context, claims *models.SessionClaims) {
	c.Set(ctxSession, claims)
	c.Set(ctxUserID, claims.UserID())
}

// RequireAPI rejects requests without a valid session with 401.
func (m *SessionMiddleware) RequireAPI() gin.HandlerFunc {
	return m.requireAPI(false)
}

// RequireStream is RequireAPI that also accepts ?token= for EventSource clients.
func (m *SessionMiddleware) RequireStream() gin.HandlerFunc {
	return m.requireAPI(true)
}

func (m *SessionMiddleware) requireAPI(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, allowQuery)
		switch {
		case err == nil:
			SetSession(c, claims)
			c.Next()
		case errors.Is(err, errSessionCheck):
			utils.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Unable to verify your session, please try again")
			c.Abort()
		case errors.Is(err, errNoSession):
			m.handleAuthError(c, "UNAUTHORIZED", "Missing session token")
		case errors.Is(err, utils.ErrSessionRevoked):
			m.handleAuthError(c, "SESSION_REVOKED", "Your session has ended, please sign in again")
		default:
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired session")
		}
	}
}

func (m *SessionMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	if m.rateLimiter != nil && !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, http.StatusUnauthorized, code, message)
	c.Abort()
}

// RequirePage redirects visitors without a session to the sign-in page,
// remembering where they were going.
func (m *SessionMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAuthPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		claims, err := m.authenticate(c, false)
		if errors.Is(err, errSessionCheck) {
			c.Redirect(http.StatusFound, "/auth?from=error")
			c.Abort()
			return
		}
		if err != nil {
			returnTo := c.Request.URL.RequestURI()
			c.Redirect(http.StatusFound, "/auth?returnTo="+url.QueryEscape(returnTo)+"&from=protected")
			c.Abort()
			return
		}

		SetSession(c, claims)
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in visitors of public entry pages on to
// returnTo or the dashboard.
func (m *SessionMiddleware) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, false)
		if err != nil {
			c.Next()
			return
		}
		SetSession(c, claims)
		c.Redirect(http.StatusFound, SafeReturnTo(c.Query("returnTo")))
		c.Abort()
	}
}

func isAuthPath(p string) bool {
	return p == "/auth" || strings.HasPrefix(p, "/auth/")
}

// SafeReturnTo accepts only same-site absolute paths and never loops back to /auth.
func SafeReturnTo(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return DefaultAfterLogin
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" || isAuthPath(u.Path) {
		return DefaultAfterLogin
	}
	return raw
}

// GetSession returns the verified session claims from context.
func GetSession(c *gin.Context) *models.SessionClaims {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	claims, _ := v.(*models.SessionClaims)
	return claims
}

// GetUserID returns the authenticated user id or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
