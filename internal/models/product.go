package models

import "time"

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10

// Product is a catalog entry owned by a business.
type Product struct {
	ID           int64     `db:"id" json:"id"`
	BusinessID   string    `db:"business_id" json:"businessId"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description"`
	CostPrice    float64   `db:"cost_price" json:"costPrice"`
	SellingPrice float64   `db:"selling_price" json:"sellingPrice"`
	Stock        int       `db:"stock" json:"stock"`
	ImageURL     *string   `db:"image_url" json:"imageUrl"`
	IsFeatured   bool      `db:"is_featured" json:"isFeatured"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Profit returns the margin per unit.
func (p *Product) Profit() float64 {
	return p.SellingPrice - p.CostPrice
}

// ProductRequest is used for both create and update.
type ProductRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  *string  `json:"description"`
	CostPrice    *float64 `json:"costPrice" binding:"required,gte=0"`
	SellingPrice *float64 `json:"sellingPrice" binding:"required,gte=0"`
	Stock        *int     `json:"stock" binding:"required,gte=0"`
	ImageURL     *string  `json:"imageUrl"`
	IsFeatured   bool     `json:"isFeatured"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search       string
	CreatedAfter *time.Time
	FeaturedOnly bool
}

// IsZero reports whether the filter selects every product.
func (f ProductFilter) IsZero() bool {
	return f.Search == "" && f.CreatedAfter == nil && !f.FeaturedOnly
}

// ProductStats summarises inventory for the dashboard cards.
type ProductStats struct {
	TotalProducts    int     `json:"totalProducts"`
	TotalValue       float64 `json:"totalValue"`
	TotalProfit      float64 `json:"totalProfit"`
	LowStockProducts int     `json:"lowStockProducts"`
}

// ComputeProductStats aggregates stats over a product list.
func ComputeProductStats(products []Product) ProductStats {
	stats := ProductStats{TotalProducts: len(products)}
	for _, p := range products {
		stats.TotalValue += p.SellingPrice * float64(p.Stock)
		stats.TotalProfit += p.Profit() * float64(p.Stock)
		if p.Stock < LowStockThreshold {
			stats.LowStockProducts++
		}
	}
	return stats
}
