package models

import "time"

// Subscription statuses reported by the payment gateway and the expiry job.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
	SubscriptionFailed    = "failed"
	SubscriptionPending   = "pending"
)

// FreeProductLimit is the catalog size of the free tier.
const FreeProductLimit = 20

// Subscription is one payment record for a business.
type Subscription struct {
	ID          string           `db:"id" json:"id"`
	BusinessID  string           `db:"business_id" json:"businessId"`
	Amount      float64          `db:"amount" json:"amount"`
	Currency    string           `db:"currency" json:"currency"`
	PaymentID   *string          `db:"payment_id" json:"paymentId"`
	PaymentDate *time.Time       `db:"payment_date" json:"paymentDate"`
	Status      string           `db:"status" json:"status"`
	Tier        SubscriptionTier `db:"tier" json:"tier"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// SubscriptionActivation is the tier change a completed payment applies.
type SubscriptionActivation struct {
	Tier         SubscriptionTier
	EndDate      time.Time
	ProductLimit *int
}

// Plan is a purchasable subscription plan.
type Plan struct {
	Key          string           `json:"key"`
	Name         string           `json:"name"`
	Price        float64          `json:"price"`
	Tier         SubscriptionTier `json:"tier"`
	TierNumber   int              `json:"tierNumber"`
	ProductLimit *int             `json:"productLimit"`
	Features     []string         `json:"features"`
}

// SubscriptionStatus is the current plan state of a tenant.
type SubscriptionStatus struct {
	Tier         SubscriptionTier `json:"tier"`
	Status       *string          `json:"status"`
	EndDate      *time.Time       `json:"endDate"`
	ProductLimit *int             `json:"productLimit"`
}

// CheckoutRequest selects a plan to pay for.
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}
