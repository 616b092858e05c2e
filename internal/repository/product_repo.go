package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

const productColumns = `id, business_id, name, description, cost_price, selling_price, stock,
	image_url, is_featured, created_at, updated_at`

// ProductRepository provides data access methods for the products table.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns the tenant's products, newest first.
func (r *ProductRepository) List(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, error) {
	where := []string{"business_id = $1"}
	args := []any{tenantID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.FeaturedOnly {
		where = append(where, "is_featured = TRUE")
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	products := []models.Product{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &products, query, args...)
	})
	return products, err
}

// GetByID returns one product of the tenant or sql.ErrNoRows.
func (r *ProductRepository) GetByID(ctx context.Context, tenantID string, id int64) (*models.Product, error) {
	var p models.Product
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &p,
			`SELECT `+productColumns+` FROM products WHERE business_id = $1 AND id = $2`, tenantID, id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Count returns how many products the tenant owns.
func (r *ProductRepository) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM products WHERE business_id = $1`, tenantID)
	})
	return n, err
}

// Create inserts a product and fills its generated fields.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (business_id, name, description, cost_price, selling_price, stock, image_url, is_featured)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id, created_at, updated_at`

	return database.WithTenant(ctx, r.db, p.BusinessID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query,
			p.BusinessID,
			p.Name,
			p.Description,
			p.CostPrice,
			p.SellingPrice,
			p.Stock,
			p.ImageURL,
			p.IsFeatured,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	})
}

// Update overwrites the editable fields. Returns sql.ErrNoRows when the product
// does not belong to the tenant.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `UPDATE products
              SET name = $1, description = $2, cost_price = $3, selling_price = $4,
                  stock = $5, image_url = $6, is_featured = $7, updated_at = NOW()
              WHERE id = $8 AND business_id = $9
              RETURNING created_at, updated_at`

	return database.WithTenant(ctx, r.db, p.BusinessID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query,
			p.Name,
			p.Description,
			p.CostPrice,
			p.SellingPrice,
			p.Stock,
			p.ImageURL,
			p.IsFeatured,
			p.ID,
			p.BusinessID,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
	})
}

// Delete removes a product of the tenant.
func (r *ProductRepository) Delete(ctx context.Context, tenantID string, id int64) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND business_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// requireAffected maps a zero-row write to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
