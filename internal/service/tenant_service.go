package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/repository"
	"github.com/basetishop/shop_api/internal/sse"
	"github.com/basetishop/shop_api/internal/utils"
)

type profileReader interface {
	GetByID(ctx context.Context, tenantID string) (*models.BusinessProfile, error)
}

type tenantLister interface {
	ListTenants(ctx context.Context) ([]repository.TenantSummary, error)
}

type tenantSelection interface {
	SelectedTenant(ctx context.Context, userID string) (string, error)
	SelectTenant(ctx context.Context, userID, tenantID string) error
}

// TenantService resolves which business a request operates on.
type TenantService struct {
	profiles  profileReader
	lister    tenantLister
	selection tenantSelection
	notifier  sse.Notifier
}

// NewTenantService creates a new TenantService.
func NewTenantService(profiles profileReader, lister tenantLister, selection tenantSelection, notifier sse.Notifier) *TenantService {
	return &TenantService{profiles: profiles, lister: lister, selection: selection, notifier: notifier}
}

// Resolve builds the tenant context of a session. Only admins may operate on
// another tenant, via requestedTenantID or their persisted selection; everyone
// else is pinned to their own user id.
func (s *TenantService) Resolve(ctx context.Context, claims *models.SessionClaims, requestedTenantID string) (*models.TenantContext, error) {
	userID := claims.UserID()
	if !claims.IsAdmin() {
		return s.build(ctx, claims, userID)
	}

	if requestedTenantID != "" {
		return s.build(ctx, claims, requestedTenantID)
	}

	selected, err := s.selection.SelectedTenant(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to read tenant selection")
	}
	if selected == "" || selected == userID {
		return s.build(ctx, claims, userID)
	}

	tc, err := s.build(ctx, claims, selected)
	if errors.Is(err, utils.ErrTenantNotFound) {
		// Selected business was removed; fall back to the admin's own.
		_ = s.selection.SelectTenant(ctx, userID, "")
		return s.build(ctx, claims, userID)
	}
	return tc, err
}

func (s *TenantService) build(ctx context.Context, claims *models.SessionClaims, tenantID string) (*models.TenantContext, error) {
	userID := claims.UserID()
	profile, err := s.profiles.GetByID(ctx, tenantID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if tenantID != userID {
			return nil, utils.ErrTenantNotFound
		}
		profile = nil
	case err != nil:
		return nil, fmt.Errorf("load business profile: %w", err)
	}

	role := models.RoleOwner
	if claims.IsAdmin() {
		role = models.RoleAdmin
	} else if profile != nil {
		role = models.ParseTenantRole(profile.Settings.Role)
	}

	return &models.TenantContext{
		TenantID:    tenantID,
		TenantName:  profile.DisplayName(),
		UserID:      userID,
		Role:        role,
		IsAdmin:     claims.IsAdmin(),
		Permissions: models.PermissionsFor(role),
	}, nil
}

// Switch persists an admin's tenant choice. An empty tenantID returns the admin
// to their own business.
func (s *TenantService) Switch(ctx context.Context, claims *models.SessionClaims, tenantID string) (*models.TenantContext, error) {
	if !claims.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	userID := claims.UserID()
	if tenantID == "" {
		tenantID = userID
	}

	tc, err := s.build(ctx, claims, tenantID)
	if err != nil {
		return nil, err
	}

	stored := tenantID
	if tenantID == userID {
		stored = ""
	}
	if err := s.selection.SelectTenant(ctx, userID, stored); err != nil {
		return nil, fmt.Errorf("persist tenant selection: %w", err)
	}

	log.Info().Str("user_id", userID).Str("tenant_id", tenantID).Msg("admin switched tenant")
	s.notifier.NotifyTenantSwitched(userID, tc)
	return tc, nil
}

// ListTenants returns every business for the admin picker.
func (s *TenantService) ListTenants(ctx context.Context) ([]repository.TenantSummary, error) {
	return s.lister.ListTenants(ctx)
}
