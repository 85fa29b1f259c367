package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the order-management DDL. Idempotent so it can run on every
// startup and in test setups.
const Schema = `
	CREATE TABLE IF NOT EXISTS orders (
		order_id      BIGSERIAL PRIMARY KEY,
		customer_name TEXT          NOT NULL,
		order_date    DATE          NOT NULL,
		status        TEXT          NOT NULL,
		total_amount  NUMERIC(12,2) NOT NULL CHECK (total_amount > 0),
		created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		item_id      BIGSERIAL PRIMARY KEY,
		order_id     BIGINT        NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		product_name TEXT          NOT NULL,
		quantity     INTEGER       NOT NULL CHECK (quantity > 0),
		price        NUMERIC(12,2) NOT NULL CHECK (price > 0)
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date);
`

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	logger.Info().Msg("applying database schema")

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")

	return nil
}
