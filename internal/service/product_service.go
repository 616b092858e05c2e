package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/sse"
	"github.com/basetishop/shop_api/internal/utils"
)

// Notification texts shown to the user after product mutations.
const (
	MsgProductCreated = "Product created successfully"
	MsgProductUpdated = "Product updated successfully"
	MsgProductDeleted = "Product deleted successfully"
)

type productStore interface {
	List(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, tenantID string, id int64) (*models.Product, error)
	Count(ctx context.Context, tenantID string) (int, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, tenantID string, id int64) error
}

// productResources are the cache entries a product mutation makes stale.
var productResources = []string{
	cache.ResourceProducts,
	cache.ResourceProductStats,
	cache.ResourceDashboard,
	cache.ResourceStorefront,
}

// ProductService manages a tenant's catalog.
type ProductService struct {
	products productStore
	profiles profileReader
	cache    *cache.QueryCache
	notifier sse.Notifier
}

// NewProductService creates a new ProductService.
func NewProductService(products productStore, profiles profileReader, qc *cache.QueryCache, notifier sse.Notifier) *ProductService {
	return &ProductService{products: products, profiles: profiles, cache: qc, notifier: notifier}
}

// List returns the tenant's products. Unfiltered listings are served from the query cache.
func (s *ProductService) List(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, error) {
	if !filter.IsZero() {
		return s.products.List(ctx, tenantID, filter)
	}
	return cache.Fetch(ctx, s.cache, cache.ResourceProducts, tenantID, func(ctx context.Context) ([]models.Product, error) {
		return s.products.List(ctx, tenantID, models.ProductFilter{})
	})
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, tenantID string, id int64) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrProductNotFound
	}
	return p, err
}

// Stats returns the inventory summary cards.
func (s *ProductService) Stats(ctx context.Context, tenantID string) (models.ProductStats, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceProductStats, tenantID, func(ctx context.Context) (models.ProductStats, error) {
		products, err := s.products.List(ctx, tenantID, models.ProductFilter{})
		if err != nil {
			return models.ProductStats{}, err
		}
		return models.ComputeProductStats(products), nil
	})
}

// Create adds a product, enforcing the plan's product limit.
func (s *ProductService) Create(ctx context.Context, tenantID string, req *models.ProductRequest) (*models.Product, error) {
	profile, err := s.profiles.GetByID(ctx, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load business profile: %w", err)
	}

	if profile.ProductLimit != nil {
		n, err := s.products.Count(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("count products: %w", err)
		}
		if n >= *profile.ProductLimit {
			return nil, utils.ErrProductLimit
		}
	}

	p := &models.Product{BusinessID: tenantID}
	applyProductRequest(p, req)
	if err := s.products.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("create product failed")
		return nil, err
	}

	s.afterMutation(ctx, sse.EventProductCreated, tenantID, p, MsgProductCreated)
	return p, nil
}

// Update replaces a product's editable fields.
func (s *ProductService) Update(ctx context.Context, tenantID string, id int64, req *models.ProductRequest) (*models.Product, error) {
	p := &models.Product{ID: id, BusinessID: tenantID}
	applyProductRequest(p, req)
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		log.Error().Err(err).Str("tenant_id", tenantID).Int64("product_id", id).Msg("update product failed")
		return nil, err
	}

	s.afterMutation(ctx, sse.EventProductUpdated, tenantID, p, MsgProductUpdated)
	return p, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, tenantID string, id int64) error {
	if err := s.products.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		log.Error().Err(err).Str("tenant_id", tenantID).Int64("product_id", id).Msg("delete product failed")
		return err
	}

	s.afterMutation(ctx, sse.EventProductDeleted, tenantID, &models.Product{ID: id, BusinessID: tenantID}, MsgProductDeleted)
	return nil
}

// afterMutation drops stale cache entries and tells open dashboards.
func (s *ProductService) afterMutation(ctx context.Context, event sse.EventType, tenantID string, p *models.Product, msg string) {
	s.cache.Invalidate(ctx, tenantID, productResources...)
	s.notifier.NotifyProduct(event, tenantID, p, msg)
}

func applyProductRequest(p *models.Product, req *models.ProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	p.ImageURL = req.ImageURL
	p.IsFeatured = req.IsFeatured
}
