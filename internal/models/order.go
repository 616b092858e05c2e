package models

import "time"

// OrderStatus mirrors the order_status enum.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a purchase placed with a business.
type Order struct {
	ID           int64       `db:"id" json:"id"`
	BusinessID   string      `db:"business_id" json:"businessId"`
	CustomerID   *int64      `db:"customer_id" json:"customerId"`
	CustomerName *string     `db:"customer_name" json:"customerName,omitempty"`
	TotalAmount  float64     `db:"total_amount" json:"totalAmount"`
	Status       OrderStatus `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// CreateOrderRequest is the payload to record a new order.
type CreateOrderRequest struct {
	CustomerID  *int64       `json:"customerId"`
	TotalAmount *float64     `json:"totalAmount" binding:"required,gte=0"`
	Status      *OrderStatus `json:"status"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status *OrderStatus
}

// OrderSummary is the order block of the dashboard summary.
type OrderSummary struct {
	TotalOrders  int     `db:"total_orders" json:"totalOrders"`
	TotalRevenue float64 `db:"total_revenue" json:"totalRevenue"`
	PendingCount int     `db:"pending_count" json:"pendingCount"`
}
