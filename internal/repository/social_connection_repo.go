package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

const socialColumns = `id, user_id, platform, handle, access_token, refresh_token, token_expires_at,
	profile_data, last_synced_at, created_at`

// SocialConnectionRepository provides data access methods for social_connections.
type SocialConnectionRepository struct {
	db *sqlx.DB
}

// NewSocialConnectionRepository creates a new SocialConnectionRepository.
func NewSocialConnectionRepository(db *sqlx.DB) *SocialConnectionRepository {
	return &SocialConnectionRepository{db: db}
}

// List returns the tenant's connected accounts.
func (r *SocialConnectionRepository) List(ctx context.Context, tenantID string) ([]models.SocialConnection, error) {
	conns := []models.SocialConnection{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &conns,
			`SELECT `+socialColumns+` FROM social_connections WHERE user_id = $1 ORDER BY platform`, tenantID)
	})
	return conns, err
}

// Upsert connects a platform, replacing an existing connection for it.
func (r *SocialConnectionRepository) Upsert(ctx context.Context, c *models.SocialConnection) error {
	query := `INSERT INTO social_connections (user_id, platform, handle, access_token, refresh_token,
                  token_expires_at, profile_data, last_synced_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
              ON CONFLICT (user_id, platform) DO UPDATE SET
                  handle = EXCLUDED.handle,
                  access_token = COALESCE(EXCLUDED.access_token, social_connections.access_token),
                  refresh_token = COALESCE(EXCLUDED.refresh_token, social_connections.refresh_token),
                  token_expires_at = EXCLUDED.token_expires_at,
                  profile_data = EXCLUDED.profile_data,
                  last_synced_at = NOW()
              RETURNING ` + socialColumns

	return database.WithTenant(ctx, r.db, c.UserID, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query,
			c.UserID, c.Platform, c.Handle, c.AccessToken, c.RefreshToken, c.TokenExpiresAt, c.ProfileData,
		).StructScan(c)
	})
}

// Delete disconnects an account of the tenant.
func (r *SocialConnectionRepository) Delete(ctx context.Context, tenantID, id string) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM social_connections WHERE id = $1 AND user_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}
