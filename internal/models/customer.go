package models

import "time"

// Customer is a shopper known to a business.
type Customer struct {
	ID         int64     `db:"id" json:"id"`
	BusinessID string    `db:"business_id" json:"businessId"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// CustomerRequest is the create/update payload.
type CustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone"`
}
