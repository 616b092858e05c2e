package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	appconfig "github.com/basetishop/shop_api/internal/config"
)

const (
	connectAttempts  = 5
	connectBaseDelay = 500 * time.Millisecond
	maxBackoff       = 5 * time.Second
)

// DSN renders the lib/pq connection URL for cfg.
func DSN(cfg *appconfig.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

// Connect opens the shop database and pings it, retrying with exponential
// backoff while Postgres is still starting.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}
	dsn := DSN(cfg)

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := sqlx.Open("postgres", dsn)
		if err == nil {
			configurePool(db.DB)
			if err = Ping(context.Background(), db); err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("host", cfg.Host).Msg("database not ready")
		time.Sleep(backoff(attempt))
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

// Ping checks connectivity with a short timeout. Used by Connect and the health endpoint.
func Ping(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// backoff returns connectBaseDelay * 2^(attempt-1), capped.
func backoff(attempt int) time.Duration {
	d := connectBaseDelay << (attempt - 1)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
