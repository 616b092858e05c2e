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

type contentPlanStore interface {
	List(ctx context.Context, tenantID string, filter models.ContentPlanFilter) ([]models.ContentPlan, error)
	GetByID(ctx context.Context, tenantID, id string) (*models.ContentPlan, error)
	Create(ctx context.Context, p *models.ContentPlan) error
	Update(ctx context.Context, p *models.ContentPlan) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ContentPlanService manages the content calendar.
type ContentPlanService struct {
	plans contentPlanStore
	cache *cache.QueryCache
}

// NewContentPlanService creates a new ContentPlanService.
func NewContentPlanService(plans contentPlanStore, qc *cache.QueryCache) *ContentPlanService {
	return &ContentPlanService{plans: plans, cache: qc}
}

// List returns the tenant's content plans; the unfiltered list is cached.
func (s *ContentPlanService) List(ctx context.Context, tenantID string, filter models.ContentPlanFilter) ([]models.ContentPlan, error) {
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, utils.ErrInvalidStatus
		}
		return s.plans.List(ctx, tenantID, filter)
	}
	return cache.Fetch(ctx, s.cache, cache.ResourceContentPlans, tenantID, func(ctx context.Context) ([]models.ContentPlan, error) {
		return s.plans.List(ctx, tenantID, models.ContentPlanFilter{})
	})
}

func (s *ContentPlanService) Get(ctx context.Context, tenantID, id string) (*models.ContentPlan, error) {
	p, err := s.plans.GetByID(ctx, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrContentNotFound
	}
	return p, err
}

// Create adds a plan. Status defaults to draft.
func (s *ContentPlanService) Create(ctx context.Context, tenantID string, req *models.ContentPlanRequest) (*models.ContentPlan, error) {
	p := &models.ContentPlan{UserID: tenantID}
	if err := applyContentPlanRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, tenantID, cache.ResourceContentPlans)
	return p, nil
}

// Update overwrites a plan.
func (s *ContentPlanService) Update(ctx context.Context, tenantID, id string, req *models.ContentPlanRequest) (*models.ContentPlan, error) {
	p := &models.ContentPlan{ID: id, UserID: tenantID}
	if err := applyContentPlanRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.plans.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrContentNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, tenantID, cache.ResourceContentPlans)
	return p, nil
}

func (s *ContentPlanService) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.plans.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrContentNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, tenantID, cache.ResourceContentPlans)
	return nil
}

// applyContentPlanRequest validates req; a scheduled plan needs a date.
func applyContentPlanRequest(p *models.ContentPlan, req *models.ContentPlanRequest) error {
	status := models.ContentDraft
	if req.Status != nil {
		status = *req.Status
	}
	if !status.Valid() {
		return utils.ErrInvalidStatus
	}
	if status == models.ContentScheduled && req.ScheduledFor == nil {
		return utils.ErrInvalidInput
	}
	if strings.TrimSpace(req.Title) == "" {
		return utils.ErrInvalidInput
	}

	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.ContentType = req.ContentType
	p.Platform = strings.ToLower(req.Platform)
	p.Hashtags = normalizeHashtags(req.Hashtags)
	p.MediaURL = req.MediaURL
	if p.MediaURL == nil {
		p.MediaURL = []string{}
	}
	p.ScheduledFor = req.ScheduledFor
	p.Status = status
	return nil
}

func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	return out
}
