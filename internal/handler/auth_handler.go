package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/middleware"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

type sessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	ClearSession(ctx context.Context, userID string) error
}

type signOutNotifier interface {
	NotifySignedOut(userID string)
}

// AuthHandler exposes the session endpoints. Sign-in itself happens at the
// identity provider; this API only verifies and revokes its tokens.
type AuthHandler struct {
	sessions sessionRevoker
	notifier signOutNotifier
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions sessionRevoker, notifier signOutNotifier) *AuthHandler {
	return &AuthHandler{sessions: sessions, notifier: notifier, now: time.Now}
}

// Session handles GET /v1/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.GetSession(c)
	info := models.SessionInfo{
		UserID:  claims.UserID(),
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin(),
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Unix()
	}
	utils.Success(c, 200, "Session retrieved successfully", info)
}

// SignOut handles POST /v1/auth/signout. The session id stays revoked for
// the remaining lifetime of the token. Tokens without a session id cannot be
// revoked and are refused rather than reported as signed out.
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims := middleware.GetSession(c)
	ctx := c.Request.Context()

	if claims.SessionID == "" {
		utils.Error(c, 400, "SESSION_NOT_REVOCABLE", "This session has no id and cannot be signed out; discard the token instead")
		return
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(h.now())
	}
	if err := h.sessions.Revoke(ctx, claims.SessionID, ttl); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID()).Msg("failed to revoke session")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to sign out")
		return
	}
	if err := h.sessions.ClearSession(ctx, claims.UserID()); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID()).Msg("failed to clear session state")
	}

	h.notifier.NotifySignedOut(claims.UserID())
	log.Info().Str("user_id", claims.UserID()).Str("session_id", claims.SessionID).Msg("user signed out")

	utils.Success(c, 200, "Signed out successfully", gin.H{"redirect": "/auth"})
}
