package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

type socialStore interface {
	List(ctx context.Context, tenantID string) ([]models.SocialConnection, error)
	Upsert(ctx context.Context, c *models.SocialConnection) error
	Delete(ctx context.Context, tenantID, id string) error
}

type tokenSealer interface {
	Seal(plaintext string) (string, error)
}

// SocialService manages connected social media accounts.
type SocialService struct {
	conns  socialStore
	sealer tokenSealer
	cache  *cache.QueryCache
}

// NewSocialService creates a new SocialService. A nil sealer rejects
// connections that carry OAuth tokens.
func NewSocialService(conns socialStore, sealer tokenSealer, qc *cache.QueryCache) *SocialService {
	return &SocialService{conns: conns, sealer: sealer, cache: qc}
}

// List returns the tenant's connections.
func (s *SocialService) List(ctx context.Context, tenantID string) ([]models.SocialConnection, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceSocial, tenantID, func(ctx context.Context) ([]models.SocialConnection, error) {
		return s.conns.List(ctx, tenantID)
	})
}

// Connect creates or refreshes the connection of one platform.
// Empty tokens keep the previously stored ones.
func (s *SocialService) Connect(ctx context.Context, tenantID string, req *models.UpsertSocialConnectionRequest) (*models.SocialConnection, error) {
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	switch platform {
	case models.PlatformInstagram, models.PlatformFacebook, models.PlatformTikTok, models.PlatformX:
	default:
		return nil, utils.ErrInvalidInput
	}

	c := &models.SocialConnection{
		UserID:         tenantID,
		Platform:       platform,
		Handle:         strings.TrimPrefix(strings.TrimSpace(req.Handle), "@"),
		TokenExpiresAt: req.TokenExpiresAt,
		ProfileData:    req.ProfileData,
	}
	if c.Handle == "" {
		return nil, utils.ErrInvalidInput
	}

	var err error
	if c.AccessToken, err = s.seal(req.AccessToken); err != nil {
		return nil, err
	}
	if c.RefreshToken, err = s.seal(req.RefreshToken); err != nil {
		return nil, err
	}

	if err := s.conns.Upsert(ctx, c); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Str("platform", platform).Msg("connect social account failed")
		return nil, err
	}
	s.cache.Invalidate(ctx, tenantID, cache.ResourceSocial)
	return c, nil
}

func (s *SocialService) seal(token string) (*string, error) {
	if token == "" {
		return nil, nil
	}
	if s.sealer == nil {
		return nil, utils.ErrSealKeyMissing
	}
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	return &sealed, nil
}

// Disconnect removes a connection.
func (s *SocialService) Disconnect(ctx context.Context, tenantID, id string) error {
	if err := s.conns.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrConnectionNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, tenantID, cache.ResourceSocial)
	return nil
}
