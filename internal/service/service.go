package service

import (
	"context"
	"time"

	"order-management/internal/model"
)

// OrderService defines the business operations on the order aggregate. It is
// the sole owner of existence and consistency rules; handlers do transport
// work only.
type OrderService interface {
	// CreateOrder persists a new order with its items and returns the stored
	// aggregate, ID assigned.
	CreateOrder(ctx context.Context, dto *model.OrderDTO) (*model.OrderDTO, error)

	// GetOrderByID retrieves one order. Returns *model.NotFoundError when
	// the ID does not exist.
	GetOrderByID(ctx context.Context, id int64) (*model.OrderDTO, error)

	// UpdateOrder overwrites the order's fields and, when dto.Items is
	// non-nil, replaces the whole item set in one transaction. A nil Items
	// slice leaves stored items untouched.
	UpdateOrder(ctx context.Context, id int64, dto *model.OrderDTO) (*model.OrderDTO, error)

	// DeleteOrder removes the order and all its items.
	DeleteOrder(ctx context.Context, id int64) error

	// ListOrders returns orders matching the optional filters. A nil status
	// is ignored; the date range applies only when both bounds are given.
	ListOrders(ctx context.Context, status *string, startDate, endDate *time.Time) ([]model.OrderDTO, error)
}
