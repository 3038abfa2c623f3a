package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion tracks the SQLite schema version.
const CurrentSchemaVersion = "1.1.0"

// Migration is one forward step of the SQLite schema.
type Migration struct {
	Version string
	Up      string
}

// AllMigrations contains all SQLite migrations in order.
var AllMigrations = []Migration{
	{Version: "1.0.0", Up: migrationV1Up},
	{Version: "1.1.0", Up: migrationV1_1Up},
}

const migrationV1Up = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Single settings row, id pinned to 1
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    exchange_rate NUMERIC NOT NULL DEFAULT 0,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_date TEXT NOT NULL,
    customer_name TEXT NOT NULL DEFAULT '',
    product_link TEXT NOT NULL DEFAULT '',
    price_thb NUMERIC NOT NULL DEFAULT 0,
    shipping_thb NUMERIC NOT NULL DEFAULT 0,
    service_fee_lak NUMERIC NOT NULL DEFAULT 0,
    th_to_la_charge_lak NUMERIC NOT NULL DEFAULT 0,
    actual_th_to_la_cost_lak NUMERIC NOT NULL DEFAULT 0,
    customer_rate NUMERIC NOT NULL DEFAULT 0,
    rate NUMERIC NOT NULL DEFAULT 0,
    price_lak NUMERIC NOT NULL DEFAULT 0,
    shipping_lak NUMERIC NOT NULL DEFAULT 0,
    total_lak NUMERIC NOT NULL DEFAULT 0,
    rate_profit_lak NUMERIC NOT NULL DEFAULT 0,
    net_profit_lak NUMERIC NOT NULL DEFAULT 0,
    payment_status TEXT NOT NULL DEFAULT 'Unpaid',
    order_status TEXT NOT NULL DEFAULT 'Pending',
    tracking_no TEXT NOT NULL DEFAULT '',
    carrier TEXT NOT NULL DEFAULT '',
    tracking_link TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_orders_recent ON orders(order_date DESC, id DESC);
`

// 1.1.0 adds bookkeeping timestamps.
const migrationV1_1Up = `
ALTER TABLE orders ADD COLUMN created_at TEXT NOT NULL DEFAULT '';
ALTER TABLE orders ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status);
`

// ApplyMigrations runs every migration newer than the recorded schema
// version, recording each one as it is applied.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range AllMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}

		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}
	return nil
}

// schemaVersion returns the highest applied version, 0.0.0 on a fresh
// database.
func schemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer rows.Close()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to read schema_version: %w", err)
		}
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", s, err)
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	return current, rows.Err()
}
