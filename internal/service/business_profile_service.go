package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

type profileStore interface {
	profileReader
	Upsert(ctx context.Context, p *models.BusinessProfile) error
	UpdateSettings(ctx context.Context, tenantID string, settings models.StoreSettings) error
}

// BusinessProfileService manages the tenant's business details and store settings.
type BusinessProfileService struct {
	profiles profileStore
	cache    *cache.QueryCache
}

// NewBusinessProfileService creates a new BusinessProfileService.
func NewBusinessProfileService(profiles profileStore, qc *cache.QueryCache) *BusinessProfileService {
	return &BusinessProfileService{profiles: profiles, cache: qc}
}

// Get returns the profile of the tenant.
func (s *BusinessProfileService) Get(ctx context.Context, tenantID string) (*models.BusinessProfile, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceProfile, tenantID, func(ctx context.Context) (*models.BusinessProfile, error) {
		p, err := s.profiles.GetByID(ctx, tenantID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrTenantNotFound
		}
		return p, err
	})
}

// Upsert saves the profile setup form. Existing settings are preserved.
func (s *BusinessProfileService) Upsert(ctx context.Context, tenantID string, req *models.UpsertBusinessProfileRequest) (*models.BusinessProfile, error) {
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, utils.ErrInvalidInput
	}
	if req.Industry != nil && !req.Industry.Valid() {
		return nil, utils.ErrInvalidInput
	}

	p := &models.BusinessProfile{
		ID:                  tenantID,
		BusinessName:        &name,
		BusinessDescription: req.BusinessDescription,
		BusinessAddress:     req.BusinessAddress,
		BusinessHours:       req.BusinessHours,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		Industry:            req.Industry,
		LogoURL:             req.LogoURL,
		WebsiteURL:          req.WebsiteURL,
		SocialMedia:         req.SocialMedia,
		Settings:            models.StoreSettings{Role: string(models.RoleOwner), Theme: models.ThemeModern, Layout: models.LayoutGrid},
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return p, nil
}

// UpdateSettings changes the storefront appearance.
func (s *BusinessProfileService) UpdateSettings(ctx context.Context, tenantID string, req *models.UpdateStoreSettingsRequest) (*models.StoreSettings, error) {
	p, err := s.profiles.GetByID(ctx, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}

	settings := p.Settings
	if req.Theme != nil {
		switch *req.Theme {
		case models.ThemeModern, models.ThemeClassic, models.ThemeBold:
			settings.Theme = *req.Theme
		default:
			return nil, utils.ErrInvalidInput
		}
	}
	if req.Layout != nil {
		switch *req.Layout {
		case models.LayoutGrid, models.LayoutSidebar:
			settings.Layout = *req.Layout
		default:
			return nil, utils.ErrInvalidInput
		}
	}
	if req.PrimaryColor != nil {
		settings.PrimaryColor = *req.PrimaryColor
	}
	if req.BannerURL != nil {
		settings.BannerURL = *req.BannerURL
	}

	if err := s.profiles.UpdateSettings(ctx, tenantID, settings); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return &settings, nil
}

func (s *BusinessProfileService) invalidate(ctx context.Context, tenantID string) {
	s.cache.Invalidate(ctx, tenantID, cache.ResourceProfile, cache.ResourceStorefront, cache.ResourceSubscription)
}
