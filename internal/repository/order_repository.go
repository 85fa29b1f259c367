package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-management/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts the order row and assigns the generated ID.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (customer_name, order_date, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING order_id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.CustomerName, order.OrderDate, string(order.Status), order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_name", order.CustomerName).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the items for orderID, stamping back-references
// and generated IDs in place.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error {
	return r.insertItems(ctx, tx, orderID, items)
}

// UpdateOrder overwrites the order row's scalar fields.
func (r *orderRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $1, order_date = $2, status = $3, total_amount = $4, updated_at = NOW()
		WHERE order_id = $5
	`

	tag, err := tx.Exec(ctx, query,
		order.CustomerName, order.OrderDate, string(order.Status), order.TotalAmount, order.ID,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no order row updated for id %d", order.ID)
	}

	r.logger.Debug().Int64("order_id", order.ID).Msg("order updated successfully")

	return nil
}

// ReplaceOrderItems removes every item row linked to orderID and inserts the
// new set. Both steps run on the caller's transaction so the replacement is
// all-or-nothing.
func (r *orderRepository) ReplaceOrderItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to clear order items")
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	return r.insertItems(ctx, tx, orderID, items)
}

// insertItems batch-inserts items for orderID. Items with a supplied ItemID
// keep it; the rest get sequence-generated IDs, scanned back in place.
func (r *orderRepository) insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	withIDQuery := `
		INSERT INTO order_items (item_id, order_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING item_id
	`
	newIDQuery := `
		INSERT INTO order_items (order_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING item_id
	`

	batch := &pgx.Batch{}
	explicitIDs := false
	for i := range items {
		items[i].OrderID = orderID
		if items[i].ItemID > 0 {
			explicitIDs = true
			batch.Queue(withIDQuery, items[i].ItemID, orderID, items[i].ProductName, items[i].Quantity, items[i].Price)
		} else {
			batch.Queue(newIDQuery, orderID, items[i].ProductName, items[i].Quantity, items[i].Price)
		}
	}

	results := tx.SendBatch(ctx, batch)

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ItemID); err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Int64("order_id", orderID).
				Str("product_name", items[i].ProductName).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	// Inserting an explicit key does not advance the item_id sequence, so a
	// later generated ID could collide with it. Keep the sequence ahead of
	// every inserted key.
	if explicitIDs {
		_, err := tx.Exec(ctx, `
			SELECT setval(
				pg_get_serial_sequence('order_items', 'item_id'),
				GREATEST(
					(SELECT COALESCE(MAX(item_id), 1) FROM order_items),
					(SELECT last_value FROM order_items_item_id_seq)
				)
			)
		`)
		if err != nil {
			r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to advance item id sequence")
			return fmt.Errorf("failed to advance item id sequence: %w", err)
		}
	}

	r.logger.Debug().
		Int64("order_id", orderID).
		Int("count", len(items)).
		Msg("order items inserted successfully")

	return nil
}

// GetByID retrieves an order with its items. Returns nil when absent.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT order_id, customer_name, order_date, status, total_amount, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerName,
		&order.OrderDate,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsByOrder, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[id]

	return &order, nil
}

// GetAll retrieves every order with items, in primary-key order.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT order_id, customer_name, order_date, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY order_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

// FindByFilters retrieves orders matching the filter policy: a nil status is
// ignored, and the date range applies only when both bounds are present.
func (r *orderRepository) FindByFilters(ctx context.Context, status *string, startDate, endDate *time.Time) ([]model.Order, error) {
	query := `
		SELECT order_id, customer_name, order_date, status, total_amount, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::date IS NULL OR $3::date IS NULL OR order_date BETWEEN $2 AND $3)
		ORDER BY order_id
	`

	rows, err := r.pool.Query(ctx, query, status, startDate, endDate)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders by filters")
		return nil, fmt.Errorf("failed to query orders by filters: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

// DeleteOrder removes the order row; the order_items foreign key cascades
// the item rows.
func (r *orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no order row deleted for id %d", id)
	}

	r.logger.Debug().Int64("order_id", id).Msg("order deleted successfully")

	return nil
}

// collectOrders scans order rows and attaches their items in one pass.
func (r *orderRepository) collectOrders(ctx context.Context, rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.OrderDate,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// loadItems fetches the items for the given order IDs grouped by order.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	query := `
		SELECT item_id, order_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY item_id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[int64][]model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ItemID, &item.OrderID, &item.ProductName, &item.Quantity, &item.Price)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}
