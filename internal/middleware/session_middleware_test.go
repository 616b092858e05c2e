package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type brokenRevocations struct{}

func (brokenRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type sessionFixture struct {
	verifier *utils.SessionVerifier
	sessions *cache.SessionStore
	mw       *SessionMiddleware
	limiter  *InvalidAuthRateLimiter
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	verifier := utils.NewSessionVerifier("test-secret", "")
	sessions := cache.NewSessionStore(cache.NewMemoryStore())
	limiter := NewInvalidAuthRateLimiter()
	t.Cleanup(limiter.Close)
	return &sessionFixture{
		verifier: verifier,
		sessions: sessions,
		mw:       NewSessionMiddleware(verifier, sessions, "sb-access-token", limiter),
		limiter:  limiter,
	}
}

func (f *sessionFixture) token(t *testing.T, userID, sessionID string) string {
	t.Helper()
	tok, err := f.verifier.Sign(utils.SessionTokenInput{UserID: userID, SessionID: sessionID, TTL: time.Hour})
	require.NoError(t, err)
	return tok
}

func (f *sessionFixture) apiRouter() *gin.Engine {
	r := gin.New()
	r.GET("/v1/me", f.mw.RequireAPI(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	r.GET("/v1/events", f.mw.RequireStream(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAPI_TokenSources(t *testing.T) {
	f := newSessionFixture(t)
	r := f.apiRouter()
	tok := f.token(t, "user-1", "sess-1")

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: tok})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	// query tokens only work on the event stream
	req = httptest.NewRequest(http.MethodGet, "/v1/me?token="+tok, nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/events?token="+tok, nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRequireAPI_Rejections(t *testing.T) {
	f := newSessionFixture(t)
	r := f.apiRouter()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"INVALID_TOKEN"`)
}

func TestRequireAPI_RevokedSession(t *testing.T) {
	f := newSessionFixture(t)
	r := f.apiRouter()
	tok := f.token(t, "user-1", "sess-1")
	require.NoError(t, f.sessions.Revoke(context.Background(), "sess-1", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := serve(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"SESSION_REVOKED"`)
}

func TestRequireAPI_RateLimitsInvalidAttempts(t *testing.T) {
	f := newSessionFixture(t)
	r := f.apiRouter()

	var last int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		last = serve(r, req).Code
		if i < 5 {
			assert.Equal(t, http.StatusUnauthorized, last)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRequireAPI_RevocationStoreDown(t *testing.T) {
	f := newSessionFixture(t)
	mw := NewSessionMiddleware(f.verifier, brokenRevocations{}, "sb-access-token", nil)
	r := gin.New()
	r.GET("/v1/me", mw.RequireAPI(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "user-1", "sess-1"))
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, req).Code)
}

func TestRequirePage_Redirects(t *testing.T) {
	f := newSessionFixture(t)
	r := gin.New()
	r.GET("/dashboard/*path", f.mw.RequirePage(), func(c *gin.Context) { c.String(http.StatusOK, "page") })
	r.GET("/auth", f.mw.RequirePage(), func(c *gin.Context) { c.String(http.StatusOK, "auth") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/dashboard/products?tab=all", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?returnTo=%2Fdashboard%2Fproducts%3Ftab%3Dall&from=protected", w.Header().Get("Location"))

	// never redirects away from the sign-in page itself
	w = serve(r, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/products", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: f.token(t, "user-1", "")})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePage_InfrastructureError(t *testing.T) {
	f := newSessionFixture(t)
	mw := NewSessionMiddleware(f.verifier, brokenRevocations{}, "sb-access-token", nil)
	r := gin.New()
	r.GET("/dashboard", mw.RequirePage(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: f.token(t, "user-1", "sess-1")})
	w := serve(r, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?from=error", w.Header().Get("Location"))
}

func TestRedirectIfAuthenticated(t *testing.T) {
	f := newSessionFixture(t)
	r := gin.New()
	r.GET("/auth", f.mw.RedirectIfAuthenticated(), func(c *gin.Context) { c.String(http.StatusOK, "sign in") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth?returnTo=%2Fdashboard%2Forders", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "user-1", ""))
	w = serve(r, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/orders", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/auth?returnTo=https%3A%2F%2Fevil.example", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, "user-1", ""))
	w = serve(r, req)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSafeReturnTo(t *testing.T) {
	cases := map[string]string{
		"":                     "/dashboard",
		"/dashboard/products":  "/dashboard/products",
		"/dashboard?tab=a":     "/dashboard?tab=a",
		"//evil.example/x":     "/dashboard",
		"/\\evil.example":      "/dashboard",
		"https://evil.example": "/dashboard",
		"/auth?from=protected": "/dashboard",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeReturnTo(in), in)
	}
}
