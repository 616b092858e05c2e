package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

const orderSelect = `SELECT o.id, o.business_id, o.customer_id, c.name AS customer_name,
        o.total_amount, o.status, o.created_at, o.updated_at
    FROM orders o
    LEFT JOIN customers c ON c.id = o.customer_id AND c.business_id = o.business_id`

// OrderRepository provides data access methods for the orders table.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns the tenant's orders, newest first, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, error) {
	query := orderSelect + ` WHERE o.business_id = $1`
	args := []any{tenantID}
	if filter.Status != nil {
		query += ` AND o.status = $2`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	orders := []models.Order{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &orders, query, args...)
	})
	return orders, err
}

// GetByID returns one order of the tenant or sql.ErrNoRows.
func (r *OrderRepository) GetByID(ctx context.Context, tenantID string, id int64) (*models.Order, error) {
	var o models.Order
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &o, orderSelect+` WHERE o.business_id = $1 AND o.id = $2`, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an order.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return database.WithTenant(ctx, r.db, o.BusinessID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO orders (business_id, customer_id, total_amount, status)
             VALUES ($1, $2, $3, $4)
             RETURNING id, created_at, updated_at`,
			o.BusinessID, o.CustomerID, o.TotalAmount, o.Status,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	})
}

// UpdateStatus moves an order to status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tenantID string, id int64, status models.OrderStatus) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND business_id = $3`,
			status, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// Delete removes an order of the tenant.
func (r *OrderRepository) Delete(ctx context.Context, tenantID string, id int64) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1 AND business_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// Summary aggregates order totals. Cancelled orders are excluded from revenue.
func (r *OrderRepository) Summary(ctx context.Context, tenantID string) (*models.OrderSummary, error) {
	var s models.OrderSummary
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &s, `
            SELECT COUNT(*) AS total_orders,
                   COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0) AS total_revenue,
                   COUNT(*) FILTER (WHERE status = 'pending') AS pending_count
            FROM orders WHERE business_id = $1`, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
