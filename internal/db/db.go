// Package db owns the Postgres connection and schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/enj100/oduel-auth-server/internal/logger"
)

type DB struct {
	*sql.DB
}

// Connect opens the database and blocks until it is reachable and fully
// migrated, retrying up to attempts times with a fixed delay in between.
// The service has no useful behavior without durable storage, so callers
// treat an error here as fatal and must not start serving traffic.
func Connect(ctx context.Context, dsn string, attempts int, delay time.Duration) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	log := logger.Named("db")
	err = withRetry(ctx, attempts, delay, func() error {
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
		return Migrate(ctx, sqlDB)
	}, func(attempt int, err error) {
		log.Warn("database connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: unreachable after %d attempts: %w", attempts, err)
	}

	log.Info("database ready")
	return &DB{DB: sqlDB}, nil
}

// withRetry runs fn up to attempts times, sleeping delay between failures.
// onFail is invoked after every failed attempt. Returns the last error.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error, onFail func(int, error)) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if onFail != nil {
			onFail(i, lastErr)
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
