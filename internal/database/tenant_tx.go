package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrEmptyTenant is returned when a tenant-scoped transaction has no tenant.
var ErrEmptyTenant = errors.New("tenant id is required")

// WithTenant runs fn inside a transaction whose row-level-security scope is tenantID.
// The setting is transaction-local and disappears on commit or rollback.
func WithTenant(ctx context.Context, db *sqlx.DB, tenantID string, fn func(tx *sqlx.Tx) error) error {
	if tenantID == "" {
		return ErrEmptyTenant
	}
	return inTx(ctx, db, "SELECT set_config('app.tenant_id', $1, true)", tenantID, fn)
}

// WithSystem runs fn in a transaction that bypasses tenant policies.
// Only background jobs and the payment webhook use it.
func WithSystem(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	return inTx(ctx, db, "SELECT set_config('app.bypass_rls', $1, true)", "on", fn)
}

func inTx(ctx context.Context, db *sqlx.DB, setting, value string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, setting, value); err != nil {
		return fmt.Errorf("set tenant scope: %w", err)
	}
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
