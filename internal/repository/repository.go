package repository

import (
	"context"
	"time"

	"order-management/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderRepository defines the storage port for order aggregates.
type OrderRepository interface {
	// BeginTx starts a new database transaction. Aggregate writes (create,
	// update with item replacement) run inside a single transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts the order row within the provided transaction and
	// assigns the generated ID to order.ID.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the given items for orderID within the
	// provided transaction. It stamps each item's OrderID back-reference and
	// assigns generated item IDs in place. Items carrying a non-zero ItemID
	// keep it.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error

	// UpdateOrder overwrites the order row's scalar fields within the
	// provided transaction.
	UpdateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// ReplaceOrderItems deletes every item row linked to orderID and inserts
	// the new set, all within the provided transaction. Supplied item IDs
	// are preserved; items without one get a generated ID.
	ReplaceOrderItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil (no error) when
	// the order does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetAll retrieves every order with items, in primary-key order.
	GetAll(ctx context.Context) ([]model.Order, error)

	// FindByFilters retrieves orders matching the given filters. A nil
	// status is ignored; the date range applies only when both bounds are
	// non-nil.
	FindByFilters(ctx context.Context, status *string, startDate, endDate *time.Time) ([]model.Order, error)

	// DeleteOrder removes the order row; item rows go with it via the
	// foreign-key cascade.
	DeleteOrder(ctx context.Context, id int64) error
}
