package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

type orderStore interface {
	List(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, tenantID string, id int64) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, tenantID string, id int64, status models.OrderStatus) error
	Delete(ctx context.Context, tenantID string, id int64) error
	Summary(ctx context.Context, tenantID string) (*models.OrderSummary, error)
}

type customerLookup interface {
	GetByID(ctx context.Context, tenantID string, id int64) (*models.Customer, error)
}

// OrderService manages a tenant's orders.
type OrderService struct {
	orders    orderStore
	customers customerLookup
	cache     *cache.QueryCache
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders orderStore, customers customerLookup, qc *cache.QueryCache) *OrderService {
	return &OrderService{orders: orders, customers: customers, cache: qc}
}

// List returns orders; the unfiltered list is cached.
func (s *OrderService) List(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, error) {
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, utils.ErrInvalidStatus
		}
		return s.orders.List(ctx, tenantID, filter)
	}
	return cache.Fetch(ctx, s.cache, cache.ResourceOrders, tenantID, func(ctx context.Context) ([]models.Order, error) {
		return s.orders.List(ctx, tenantID, models.OrderFilter{})
	})
}

func (s *OrderService) Get(ctx context.Context, tenantID string, id int64) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrOrderNotFound
	}
	return o, err
}

// Create records an order. The customer, if given, must belong to the tenant.
func (s *OrderService) Create(ctx context.Context, tenantID string, req *models.CreateOrderRequest) (*models.Order, error) {
	status := models.OrderPending
	if req.Status != nil {
		status = *req.Status
	}
	if !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}
	if req.TotalAmount == nil || *req.TotalAmount < 0 {
		return nil, utils.ErrInvalidInput
	}

	o := &models.Order{BusinessID: tenantID, CustomerID: req.CustomerID, TotalAmount: *req.TotalAmount, Status: status}
	if req.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, tenantID, *req.CustomerID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCustomerNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load customer: %w", err)
		}
		o.CustomerName = &c.Name
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, tenantID string, id int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, utils.ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, tenantID, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return s.Get(ctx, tenantID, id)
}

func (s *OrderService) Delete(ctx context.Context, tenantID string, id int64) error {
	if err := s.orders.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrOrderNotFound
		}
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, tenantID string) {
	s.cache.Invalidate(ctx, tenantID, cache.ResourceOrders, cache.ResourceDashboard)
}
