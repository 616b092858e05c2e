package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

// SubscriptionRepository provides data access methods for the subscriptions table.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// RecordPayment stores a gateway notification and, when activation is set,
// applies the paid tier in the same transaction. Repeated notifications for
// the same payment id are ignored; the return value reports whether a row was
// inserted. A failed activation rolls the row back so a redelivery can apply it.
func (r *SubscriptionRepository) RecordPayment(ctx context.Context, s *models.Subscription, activation *models.SubscriptionActivation) (bool, error) {
	inserted := false
	err := database.WithSystem(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO subscriptions (business_id, amount, currency, payment_id, payment_date, status, tier)
             VALUES ($1, $2, $3, $4, $5, $6, $7)
             ON CONFLICT (payment_id) DO NOTHING
             RETURNING id, created_at`,
			s.BusinessID, s.Amount, s.Currency, s.PaymentID, s.PaymentDate, s.Status, s.Tier).
			Scan(&s.ID, &s.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		inserted = true

		if activation == nil {
			return nil
		}
		if err := activateSubscription(ctx, tx, s.BusinessID, activation); err != nil {
			inserted = false
			return fmt.Errorf("activate subscription: %w", err)
		}
		return nil
	})
	return inserted, err
}

// ListByBusiness returns the payment history of a tenant.
func (r *SubscriptionRepository) ListByBusiness(ctx context.Context, tenantID string) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &subs,
			`SELECT id, business_id, amount, currency, payment_id, payment_date, status, tier, created_at
             FROM subscriptions WHERE business_id = $1 ORDER BY created_at DESC`, tenantID)
	})
	return subs, err
}
