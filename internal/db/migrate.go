package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema changes are append-only: add a new entry, never edit an applied one.
var migrations = []struct {
	version int
	stmt    string
}{
	{1, `
CREATE TABLE IF NOT EXISTS identity_links (
    discord_id   text PRIMARY KEY,
    email        text,
    access_token text NOT NULL,
    created_at   timestamptz NOT NULL DEFAULT NOW(),
    updated_at   timestamptz NOT NULL DEFAULT NOW()
);`},
	{2, `
CREATE TABLE IF NOT EXISTS settings (
    id               integer PRIMARY KEY CHECK (id = 0),
    role_id          text,
    color            text DEFAULT 'ffffff',
    thumbnail        text,
    server_name      text,
    auth_link        text,
    auth_description text,
    updated_at       timestamptz NOT NULL DEFAULT NOW()
);`},
}

// Migrate applies pending schema migrations in order, tracking applied
// versions in schema_migrations. Safe to run on every boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
		    version    integer PRIMARY KEY,
		    applied_at timestamptz NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("migrate: init tracking table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isApplied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := apply(ctx, db, m.version, m.stmt); err != nil {
			return err
		}
	}
	return nil
}

func isApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
		    SELECT 1 FROM schema_migrations WHERE version = $1
		)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("migrate: check version %d: %w", version, err)
	}
	return exists, nil
}

func apply(ctx context.Context, db *sql.DB, version int, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin version %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate: apply version %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("migrate: record version %d: %w", version, err)
	}
	return tx.Commit()
}
