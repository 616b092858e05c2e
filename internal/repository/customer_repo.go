package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

const customerColumns = `id, business_id, name, email, phone, created_at`

// CustomerRepository provides data access methods for the customers table.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// List returns the tenant's customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context, tenantID string) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &customers,
			`SELECT `+customerColumns+` FROM customers WHERE business_id = $1 ORDER BY name, id`, tenantID)
	})
	return customers, err
}

// GetByID returns a customer of the tenant or sql.ErrNoRows.
func (r *CustomerRepository) GetByID(ctx context.Context, tenantID string, id int64) (*models.Customer, error) {
	var c models.Customer
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &c,
			`SELECT `+customerColumns+` FROM customers WHERE business_id = $1 AND id = $2`, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Count returns the number of customers of the tenant.
func (r *CustomerRepository) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM customers WHERE business_id = $1`, tenantID)
	})
	return n, err
}

// Create inserts a customer. A second customer with the same email yields utils.ErrDuplicateCustomer.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := database.WithTenant(ctx, r.db, c.BusinessID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO customers (business_id, name, email, phone) VALUES ($1, $2, $3, $4)
             RETURNING id, created_at`,
			c.BusinessID, c.Name, c.Email, c.Phone,
		).Scan(&c.ID, &c.CreatedAt)
	})
	return mapUniqueViolation(err, utils.ErrDuplicateCustomer)
}

// Update changes contact details of a customer.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	err := database.WithTenant(ctx, r.db, c.BusinessID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`UPDATE customers SET name = $1, email = $2, phone = $3
             WHERE id = $4 AND business_id = $5
             RETURNING created_at`,
			c.Name, c.Email, c.Phone, c.ID, c.BusinessID,
		).Scan(&c.CreatedAt)
	})
	return mapUniqueViolation(err, utils.ErrDuplicateCustomer)
}

// Delete removes a customer of the tenant. Their orders keep a NULL customer.
func (r *CustomerRepository) Delete(ctx context.Context, tenantID string, id int64) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1 AND business_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

func mapUniqueViolation(err, target error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return target
	}
	return err
}
