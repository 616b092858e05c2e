package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

const profileColumns = `id, business_name, business_description, business_address, business_hours,
	contact_email, contact_phone, industry, logo_url, website_url, social_media, settings,
	subscription_tier, subscription_status, subscription_end_date, product_limit, created_at, updated_at`

// TenantSummary is a row of the admin tenant picker.
type TenantSummary struct {
	ID               string                  `db:"id" json:"id"`
	BusinessName     *string                 `db:"business_name" json:"businessName"`
	SubscriptionTier models.SubscriptionTier `db:"subscription_tier" json:"subscriptionTier"`
}

// BusinessProfileRepository provides data access methods for business_profiles.
type BusinessProfileRepository struct {
	db *sqlx.DB
}

// NewBusinessProfileRepository creates a new BusinessProfileRepository.
func NewBusinessProfileRepository(db *sqlx.DB) *BusinessProfileRepository {
	return &BusinessProfileRepository{db: db}
}

// GetByID returns the profile of tenantID or sql.ErrNoRows.
func (r *BusinessProfileRepository) GetByID(ctx context.Context, tenantID string) (*models.BusinessProfile, error) {
	var p models.BusinessProfile
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM business_profiles WHERE id = $1`, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile on first setup or updates its details.
// Subscription columns are never touched here.
func (r *BusinessProfileRepository) Upsert(ctx context.Context, p *models.BusinessProfile) error {
	query := `INSERT INTO business_profiles (id, business_name, business_description, business_address,
                  business_hours, contact_email, contact_phone, industry, logo_url, website_url, social_media, settings)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
              ON CONFLICT (id) DO UPDATE SET
                  business_name = EXCLUDED.business_name,
                  business_description = EXCLUDED.business_description,
                  business_address = EXCLUDED.business_address,
                  business_hours = EXCLUDED.business_hours,
                  contact_email = EXCLUDED.contact_email,
                  contact_phone = EXCLUDED.contact_phone,
                  industry = EXCLUDED.industry,
                  logo_url = EXCLUDED.logo_url,
                  website_url = EXCLUDED.website_url,
                  social_media = EXCLUDED.social_media,
                  updated_at = NOW()
              RETURNING ` + profileColumns

	return database.WithTenant(ctx, r.db, p.ID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query,
			p.ID,
			p.BusinessName,
			p.BusinessDescription,
			p.BusinessAddress,
			p.BusinessHours,
			p.ContactEmail,
			p.ContactPhone,
			p.Industry,
			p.LogoURL,
			p.WebsiteURL,
			p.SocialMedia,
			p.Settings,
		).StructScan(p)
	})
}

// UpdateSettings replaces the settings document.
func (r *BusinessProfileRepository) UpdateSettings(ctx context.Context, tenantID string, settings models.StoreSettings) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE business_profiles SET settings = $1, updated_at = NOW() WHERE id = $2`, settings, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// ListTenants returns every business for the admin tenant picker.
func (r *BusinessProfileRepository) ListTenants(ctx context.Context) ([]TenantSummary, error) {
	tenants := []TenantSummary{}
	err := database.WithSystem(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &tenants,
			`SELECT id, business_name, subscription_tier FROM business_profiles ORDER BY business_name NULLS LAST, id`)
	})
	return tenants, err
}

// activateSubscription sets the paid tier on a profile until endDate.
func activateSubscription(ctx context.Context, tx *sqlx.Tx, tenantID string, a *models.SubscriptionActivation) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE business_profiles
         SET subscription_tier = $1, subscription_status = 'active', subscription_end_date = $2,
             product_limit = $3, updated_at = NOW()
         WHERE id = $4`,
		a.Tier, a.EndDate, a.ProductLimit, tenantID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ExpireSubscriptions downgrades every paid profile whose end date passed
// and returns the affected tenant ids.
func (r *BusinessProfileRepository) ExpireSubscriptions(ctx context.Context, now time.Time, freeLimit int) ([]string, error) {
	ids := []string{}
	err := database.WithSystem(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &ids,
			`UPDATE business_profiles
             SET subscription_tier = 'free', subscription_status = 'expired', product_limit = $1, updated_at = NOW()
             WHERE subscription_tier <> 'free' AND subscription_end_date IS NOT NULL AND subscription_end_date < $2
             RETURNING id`,
			freeLimit, now)
	})
	return ids, err
}
