package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		wallet_balance NUMERIC NOT NULL DEFAULT 0 CHECK (wallet_balance >= 0),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL CHECK (category IN ('stocks', 'mutual_funds', 'bonds')),
		symbol         TEXT NOT NULL UNIQUE,
		price_per_unit NUMERIC NOT NULL CHECK (price_per_unit > 0),
		description    TEXT NOT NULL DEFAULT '',
		risk_level     TEXT NOT NULL DEFAULT 'medium' CHECK (risk_level IN ('low', 'medium', 'high')),
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS portfolios (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL UNIQUE REFERENCES users (id),
		total_investment NUMERIC NOT NULL DEFAULT 0,
		current_value    NUMERIC NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS holdings (
		portfolio_id   TEXT NOT NULL REFERENCES portfolios (id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		product_id     TEXT NOT NULL,
		units          NUMERIC NOT NULL CHECK (units > 0),
		avg_buy_price  NUMERIC NOT NULL CHECK (avg_buy_price > 0),
		total_invested NUMERIC NOT NULL CHECK (total_invested >= 0),
		PRIMARY KEY (portfolio_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		seq            BIGSERIAL UNIQUE,
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		product_id     TEXT NOT NULL,
		side           TEXT NOT NULL CHECK (side IN ('buy', 'sell')),
		units          NUMERIC NOT NULL CHECK (units > 0),
		price_per_unit NUMERIC NOT NULL,
		total_amount   NUMERIC NOT NULL,
		status         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_created
		ON transactions (user_id, created_at DESC, seq DESC)`,
	`CREATE OR REPLACE FUNCTION transactions_append_only() RETURNS trigger AS $$
	BEGIN
		RAISE EXCEPTION 'transactions are append-only';
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS transactions_append_only ON transactions`,
	`CREATE TRIGGER transactions_append_only
		BEFORE UPDATE OR DELETE ON transactions
		FOR EACH ROW EXECUTE FUNCTION transactions_append_only()`,
}

// Migrate creates the tables used by the ledger. It is safe to run again.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
