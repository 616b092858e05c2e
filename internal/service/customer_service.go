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

type customerStore interface {
	List(ctx context.Context, tenantID string) ([]models.Customer, error)
	GetByID(ctx context.Context, tenantID string, id int64) (*models.Customer, error)
	Count(ctx context.Context, tenantID string) (int, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, tenantID string, id int64) error
}

// CustomerService manages a tenant's customers.
type CustomerService struct {
	customers customerStore
	cache     *cache.QueryCache
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers customerStore, qc *cache.QueryCache) *CustomerService {
	return &CustomerService{customers: customers, cache: qc}
}

func (s *CustomerService) List(ctx context.Context, tenantID string) ([]models.Customer, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceCustomers, tenantID, func(ctx context.Context) ([]models.Customer, error) {
		return s.customers.List(ctx, tenantID)
	})
}

func (s *CustomerService) Get(ctx context.Context, tenantID string, id int64) (*models.Customer, error) {
	c, err := s.customers.GetByID(ctx, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrCustomerNotFound
	}
	return c, err
}

func (s *CustomerService) Create(ctx context.Context, tenantID string, req *models.CustomerRequest) (*models.Customer, error) {
	c := &models.Customer{
		BusinessID: tenantID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
	}
	if c.Name == "" || c.Email == "" {
		return nil, utils.ErrInvalidInput
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, tenantID string, id int64, req *models.CustomerRequest) (*models.Customer, error) {
	c := &models.Customer{
		ID:         id,
		BusinessID: tenantID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
	}
	if c.Name == "" || c.Email == "" {
		return nil, utils.ErrInvalidInput
	}
	if err := s.customers.Update(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCustomerNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, tenantID)
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, tenantID string, id int64) error {
	if err := s.customers.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrCustomerNotFound
		}
		return err
	}
	// Orders show the customer name, so they go stale too.
	s.invalidate(ctx, tenantID, cache.ResourceOrders)
	return nil
}

func (s *CustomerService) invalidate(ctx context.Context, tenantID string, extra ...string) {
	s.cache.Invalidate(ctx, tenantID, append([]string{cache.ResourceCustomers, cache.ResourceDashboard}, extra...)...)
}
