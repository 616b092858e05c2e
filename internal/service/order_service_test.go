package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

type fakeCustomers struct {
	customers []models.Customer
}

func (f *fakeCustomers) List(_ context.Context, tenantID string) ([]models.Customer, error) {
	out := []models.Customer{}
	for _, c := range f.customers {
		if c.BusinessID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) GetByID(_ context.Context, tenantID string, id int64) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id && c.BusinessID == tenantID {
			cp := c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCustomers) Count(ctx context.Context, tenantID string) (int, error) {
	list, _ := f.List(ctx, tenantID)
	return len(list), nil
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	for _, existing := range f.customers {
		if existing.BusinessID == c.BusinessID && existing.Email == c.Email {
			return utils.ErrDuplicateCustomer
		}
	}
	c.ID = int64(len(f.customers) + 1)
	f.customers = append(f.customers, *c)
	return nil
}

func (f *fakeCustomers) Update(_ context.Context, c *models.Customer) error {
	for i := range f.customers {
		if f.customers[i].ID == c.ID && f.customers[i].BusinessID == c.BusinessID {
			f.customers[i] = *c
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeCustomers) Delete(_ context.Context, tenantID string, id int64) error {
	for i, c := range f.customers {
		if c.ID == id && c.BusinessID == tenantID {
			f.customers = append(f.customers[:i], f.customers[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeOrders struct {
	orders []models.Order
}

func (f *fakeOrders) List(_ context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.BusinessID == tenantID && (filter.Status == nil || *filter.Status == o.Status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetByID(_ context.Context, tenantID string, id int64) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id && o.BusinessID == tenantID {
			cp := o
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	o.ID = int64(len(f.orders) + 1)
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, tenantID string, id int64, status models.OrderStatus) error {
	for i := range f.orders {
		if f.orders[i].ID == id && f.orders[i].BusinessID == tenantID {
			f.orders[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeOrders) Delete(_ context.Context, tenantID string, id int64) error {
	for i, o := range f.orders {
		if o.ID == id && o.BusinessID == tenantID {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeOrders) Summary(context.Context, string) (*models.OrderSummary, error) {
	return &models.OrderSummary{}, nil
}

func TestOrderService_CreateChecksCustomerTenant(t *testing.T) {
	customers := &fakeCustomers{customers: []models.Customer{
		{ID: 1, BusinessID: "t1", Name: "Ann", Email: "ann@example.com"},
		{ID: 2, BusinessID: "t2", Name: "Bob", Email: "bob@example.com"},
	}}
	svc := NewOrderService(&fakeOrders{}, customers, newTestCache())
	ctx := context.Background()
	total := 120.5

	ownID := int64(1)
	o, err := svc.Create(ctx, "t1", &models.CreateOrderRequest{CustomerID: &ownID, TotalAmount: &total})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "Ann", *o.CustomerName)

	foreignID := int64(2)
	_, err = svc.Create(ctx, "t1", &models.CreateOrderRequest{CustomerID: &foreignID, TotalAmount: &total})
	assert.ErrorIs(t, err, utils.ErrCustomerNotFound)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	svc := NewOrderService(&fakeOrders{}, &fakeCustomers{}, newTestCache())
	ctx := context.Background()
	total := 10.0

	o, err := svc.Create(ctx, "t1", &models.CreateOrderRequest{TotalAmount: &total})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "t1", o.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, "t1", o.ID, "lost")
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "t2", o.ID, models.OrderPaid)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)

	shipped := models.OrderShipped
	list, err := svc.List(ctx, "t1", models.OrderFilter{Status: &shipped})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCustomerService_NormalizesEmail(t *testing.T) {
	store := &fakeCustomers{}
	svc := NewCustomerService(store, newTestCache())
	ctx := context.Background()

	c, err := svc.Create(ctx, "t1", &models.CustomerRequest{Name: " Ann ", Email: " Ann@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@example.com", c.Email)

	_, err = svc.Create(ctx, "t1", &models.CustomerRequest{Name: "Ann", Email: "ann@example.com"})
	assert.ErrorIs(t, err, utils.ErrDuplicateCustomer)

	_, err = svc.Get(ctx, "t2", c.ID)
	assert.ErrorIs(t, err, utils.ErrCustomerNotFound)
}

func TestBusinessProfileService_UpsertAndSettings(t *testing.T) {
	profiles := newFakeProfiles()
	svc := NewBusinessProfileService(profiles, newTestCache())
	ctx := context.Background()

	p, err := svc.Upsert(ctx, "t1", &models.UpsertBusinessProfileRequest{BusinessName: "Corner Shop"})
	require.NoError(t, err)
	assert.Equal(t, models.ThemeModern, p.Settings.Theme)

	bold := models.ThemeBold
	settings, err := svc.UpdateSettings(ctx, "t1", &models.UpdateStoreSettingsRequest{Theme: &bold})
	require.NoError(t, err)
	assert.Equal(t, models.ThemeBold, settings.Theme)
	assert.Equal(t, models.LayoutGrid, settings.Layout)

	neon := "neon"
	_, err = svc.UpdateSettings(ctx, "t1", &models.UpdateStoreSettingsRequest{Theme: &neon})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	got, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", got.DisplayName())
	assert.Equal(t, models.ThemeBold, got.Settings.Theme)
}
