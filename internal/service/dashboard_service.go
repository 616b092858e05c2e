package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
)

type orderSummarizer interface {
	Summary(ctx context.Context, tenantID string) (*models.OrderSummary, error)
}

type customerCounter interface {
	Count(ctx context.Context, tenantID string) (int, error)
}

// DashboardSummary feeds the dashboard overview cards.
type DashboardSummary struct {
	Products       models.ProductStats `json:"products"`
	Orders         models.OrderSummary `json:"orders"`
	TotalCustomers int                 `json:"totalCustomers"`
}

// DashboardService aggregates the overview of a tenant.
type DashboardService struct {
	products  productLister
	orders    orderSummarizer
	customers customerCounter
	cache     *cache.QueryCache
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(products productLister, orders orderSummarizer, customers customerCounter, qc *cache.QueryCache) *DashboardService {
	return &DashboardService{products: products, orders: orders, customers: customers, cache: qc}
}

// Summary loads product stats, order totals and the customer count in parallel.
func (s *DashboardService) Summary(ctx context.Context, tenantID string) (*DashboardSummary, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceDashboard, tenantID, func(ctx context.Context) (*DashboardSummary, error) {
		var out DashboardSummary
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			products, err := s.products.List(gctx, tenantID, models.ProductFilter{})
			if err != nil {
				return err
			}
			out.Products = models.ComputeProductStats(products)
			return nil
		})
		g.Go(func() error {
			summary, err := s.orders.Summary(gctx, tenantID)
			if err != nil {
				return err
			}
			out.Orders = *summary
			return nil
		})
		g.Go(func() error {
			n, err := s.customers.Count(gctx, tenantID)
			if err != nil {
				return err
			}
			out.TotalCustomers = n
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
