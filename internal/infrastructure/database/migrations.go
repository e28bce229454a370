package database

import (
	"context"
	"fmt"
)

// schema contains the DDL statements applied by Migrate.
// All statements are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS refresh_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id TEXT NOT NULL,
		version TEXT NOT NULL,
		source TEXT NOT NULL,
		features TEXT NOT NULL,
		duration_ms REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_history_created_at
		ON refresh_history(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_history_device_id
		ON refresh_history(device_id)`,
}

// Migrate applies the database schema.
//
// Every statement uses IF NOT EXISTS, so the method is safe to call on
// each startup. Statements run in a single transaction: either the whole
// schema applies or none of it does.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If any statement fails (the transaction is rolled back)
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
