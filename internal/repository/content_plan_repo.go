package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/basetishop/shop_api/internal/database"
	"github.com/basetishop/shop_api/internal/models"
)

const contentPlanColumns = `id, user_id, title, description, content_type, platform, hashtags, media_url,
	scheduled_for, status, created_at, updated_at`

// ContentPlanRepository provides data access methods for content_plans.
type ContentPlanRepository struct {
	db *sqlx.DB
}

// NewContentPlanRepository creates a new ContentPlanRepository.
func NewContentPlanRepository(db *sqlx.DB) *ContentPlanRepository {
	return &ContentPlanRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanContentPlan scans one row, reading the TEXT[] columns via pq.Array.
func scanContentPlan(row rowScanner) (*models.ContentPlan, error) {
	var p models.ContentPlan
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.ContentType,
		&p.Platform,
		pq.Array(&p.Hashtags),
		pq.Array(&p.MediaURL),
		&p.ScheduledFor,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the tenant's content plans ordered by schedule.
func (r *ContentPlanRepository) List(ctx context.Context, tenantID string, filter models.ContentPlanFilter) ([]models.ContentPlan, error) {
	query := `SELECT ` + contentPlanColumns + ` FROM content_plans WHERE user_id = $1`
	args := []any{tenantID}
	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY scheduled_for NULLS LAST, created_at DESC`

	plans := []models.ContentPlan{}
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanContentPlan(rows)
			if err != nil {
				return err
			}
			plans = append(plans, *p)
		}
		return rows.Err()
	})
	return plans, err
}

// GetByID returns a content plan of the tenant or sql.ErrNoRows.
func (r *ContentPlanRepository) GetByID(ctx context.Context, tenantID, id string) (*models.ContentPlan, error) {
	var plan *models.ContentPlan
	err := database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		var err error
		plan, err = scanContentPlan(tx.QueryRowContext(ctx,
			`SELECT `+contentPlanColumns+` FROM content_plans WHERE id = $1 AND user_id = $2`, id, tenantID))
		return err
	})
	return plan, err
}

// Create inserts a content plan.
func (r *ContentPlanRepository) Create(ctx context.Context, p *models.ContentPlan) error {
	return database.WithTenant(ctx, r.db, p.UserID, func(tx *sqlx.Tx) error {
		return tx.QueryRowContext(ctx,
			`INSERT INTO content_plans (user_id, title, description, content_type, platform, hashtags, media_url, scheduled_for, status)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
             RETURNING id, created_at, updated_at`,
			p.UserID, p.Title, p.Description, p.ContentType, p.Platform,
			pq.Array(p.Hashtags), pq.Array(p.MediaURL), p.ScheduledFor, p.Status,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	})
}

// Update overwrites a content plan of the tenant. Returns sql.ErrNoRows if it is not theirs.
func (r *ContentPlanRepository) Update(ctx context.Context, p *models.ContentPlan) error {
	return database.WithTenant(ctx, r.db, p.UserID, func(tx *sqlx.Tx) error {
		return tx.QueryRowContext(ctx,
			`UPDATE content_plans
             SET title = $1, description = $2, content_type = $3, platform = $4, hashtags = $5,
                 media_url = $6, scheduled_for = $7, status = $8, updated_at = NOW()
             WHERE id = $9 AND user_id = $10
             RETURNING created_at, updated_at`,
			p.Title, p.Description, p.ContentType, p.Platform, pq.Array(p.Hashtags),
			pq.Array(p.MediaURL), p.ScheduledFor, p.Status, p.ID, p.UserID,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
	})
}

// Delete removes a content plan of the tenant.
func (r *ContentPlanRepository) Delete(ctx context.Context, tenantID, id string) error {
	return database.WithTenant(ctx, r.db, tenantID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM content_plans WHERE id = $1 AND user_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}
